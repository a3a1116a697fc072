package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rorical/EcoChat/internal/app"
	"github.com/Rorical/EcoChat/internal/config"
	"github.com/Rorical/EcoChat/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "ecochat",
	Short: "Terminal chat client for a question answering service",
	Long:  `EcoChat sends your questions to an answering service and keeps the conversation in your terminal.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.LoadEnvFiles(".env"); err != nil {
			log.Printf("Warning: %v", err)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		runChat(cfg)
	},
}

// runChat starts the chat UI and blocks until the user quits.
func runChat(cfg *config.Config) {
	logFile, err := logging.OpenFile(cfg.Dir())
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	logger := logging.New(logFile, cfg.LogLevel())

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer application.Stop()

	if err := application.Start(); err != nil {
		logger.Error().Err(err).Msg("application error")
		log.Printf("Application error: %v", err)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
