package cmd

import (
	"fmt"
	"log"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/EcoChat/internal/config"
)

var (
	headingColor = color.New(color.FgMagenta, color.Bold)
	activeColor  = color.New(color.FgGreen, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage answering service profiles",
	Long:  `Manage profiles describing which answering service to talk to and how.`,
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		headingColor.Printf("Active Profile: %s\n\n", cfg.ActiveProfile)
		fmt.Println("Available Profiles:")
		for _, name := range profileNames(cfg, "") {
			profile := cfg.Profiles[name]
			if name == cfg.ActiveProfile {
				activeColor.Printf("  %s (active)\n", name)
			} else {
				fmt.Printf("  %s\n", name)
			}
			printProfile(profile, "    ")
			fmt.Println()
		}
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		profile, exists := cfg.Profiles[args[0]]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", args[0])
		}

		headingColor.Printf("Profile: %s\n", args[0])
		printProfile(profile, "")
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		profileName := ""
		if len(args) > 0 {
			profileName = args[0]
		} else {
			profileName = mustPrompt(promptui.Prompt{Label: "Profile name"})
		}

		if cfg.HasProfile(profileName) {
			log.Fatalf("Profile '%s' already exists", profileName)
		}

		cfg.Profiles[profileName] = promptProfile(config.NewDefaultProfile())

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		activeColor.Printf("Profile '%s' added successfully!\n", profileName)
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		profileName := selectProfile(cfg, args, "Select profile to edit", "")
		profile, exists := cfg.Profiles[profileName]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		cfg.Profiles[profileName] = promptProfile(profile)

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		activeColor.Printf("Profile '%s' updated successfully!\n", profileName)
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		profileName := selectProfile(cfg, args, "Select profile to delete", "")
		if !cfg.HasProfile(profileName) {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete profile '%s'? (y/N)", profileName),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Println("Deletion cancelled")
			return
		}

		delete(cfg.Profiles, profileName)

		// Deleting the active profile moves to another one, or a fresh default
		if cfg.ActiveProfile == profileName {
			if remaining := profileNames(cfg, ""); len(remaining) > 0 {
				cfg.ActiveProfile = remaining[0]
			} else {
				cfg.ActiveProfile = config.DefaultProfile
				cfg.Profiles[config.DefaultProfile] = config.NewDefaultProfile()
			}
		}

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		activeColor.Printf("Profile '%s' deleted successfully!\n", profileName)
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		if len(args) == 0 && len(profileNames(cfg, cfg.ActiveProfile)) == 0 {
			fmt.Println("No other profiles available to switch to")
			return
		}

		profileName := selectProfile(cfg, args, "Select profile to switch to", cfg.ActiveProfile)
		if err := cfg.Use(profileName); err != nil {
			log.Fatalf("Failed to switch profile: %v", err)
		}

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		activeColor.Printf("Switched to profile '%s'\n", profileName)
	},
}

func mustLoadConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func mustPrompt(prompt promptui.Prompt) string {
	value, err := prompt.Run()
	if err != nil {
		log.Fatalf("Prompt failed: %v", err)
	}
	return value
}

func mustSelect(label string, items []string, current string) string {
	cursor := 0
	for i, item := range items {
		if item == current {
			cursor = i
		}
	}
	sel := promptui.Select{Label: label, Items: items, CursorPos: cursor}
	_, value, err := sel.Run()
	if err != nil {
		log.Fatalf("Selection failed: %v", err)
	}
	return value
}

// profileNames returns sorted profile names, leaving out skip.
func profileNames(cfg *config.Config, skip string) []string {
	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		if name != skip {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func selectProfile(cfg *config.Config, args []string, label, skip string) string {
	if len(args) > 0 {
		return args[0]
	}
	names := profileNames(cfg, skip)
	if len(names) == 0 {
		log.Fatalf("No profiles available")
	}
	return mustSelect(label, names, "")
}

// promptProfile walks the user through every field, starting from base.
func promptProfile(base config.Profile) config.Profile {
	p := base
	p.Backend = mustSelect("Backend", []string{config.BackendHTTP, config.BackendOpenAI}, base.BackendName())

	if p.Backend == config.BackendHTTP {
		p.Endpoint = mustPrompt(promptui.Prompt{Label: "Endpoint URL", Default: base.Endpoint})
		p.Schema = mustSelect("Wire schema", []string{"ask", "chat"}, base.Schema)
		if p.Schema == "chat" {
			p.UserID = mustPrompt(promptui.Prompt{Label: "User ID", Default: base.UserID})
		}
	} else {
		p.APIKey = mustPrompt(promptui.Prompt{Label: "API Key", Default: base.APIKey, Mask: '*'})
		p.Model = mustPrompt(promptui.Prompt{Label: "Model", Default: base.Model})
		p.BaseURL = mustPrompt(promptui.Prompt{Label: "Base URL (optional)", Default: base.BaseURL})
	}

	timeout := mustPrompt(promptui.Prompt{
		Label:   "Request timeout in seconds (0 = default, -1 = none)",
		Default: strconv.Itoa(base.RequestTimeout),
		Validate: func(s string) error {
			_, err := strconv.Atoi(s)
			return err
		},
	})
	p.RequestTimeout, _ = strconv.Atoi(timeout)

	return p
}

func printProfile(profile config.Profile, indent string) {
	fmt.Printf("%sBackend: %s\n", indent, profile.BackendName())
	if profile.BackendName() == config.BackendOpenAI {
		fmt.Printf("%sModel: %s\n", indent, profile.Model)
		if profile.BaseURL != "" {
			fmt.Printf("%sBase URL: %s\n", indent, profile.BaseURL)
		}
		hasKey := "Not set"
		if profile.APIKey != "" {
			hasKey = "Set (hidden for security)"
		}
		fmt.Printf("%sAPI Key: %s\n", indent, hasKey)
	} else {
		fmt.Printf("%sEndpoint: %s\n", indent, profile.Endpoint)
		schema := profile.Schema
		if schema == "" {
			schema = "ask"
		}
		fmt.Printf("%sSchema: %s\n", indent, schema)
		if profile.UserID != "" {
			fmt.Printf("%sUser ID: %s\n", indent, profile.UserID)
		}
	}
	if profile.RequestTimeout != 0 {
		fmt.Printf("%sRequest timeout: %ds\n", indent, profile.RequestTimeout)
	} else {
		dimColor.Printf("%sRequest timeout: default\n", indent)
	}
}

func init() {
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
}
