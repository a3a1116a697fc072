package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Rorical/EcoChat/internal/config"
	"github.com/Rorical/EcoChat/internal/core"
	"github.com/Rorical/EcoChat/internal/dispatcher"
	"github.com/Rorical/EcoChat/internal/eventbus"
	"github.com/Rorical/EcoChat/internal/models"
	"github.com/Rorical/EcoChat/internal/remote"
)

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	logger     zerolog.Logger
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	model      *AppModel
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
}

func NewApplication(cfg *config.Config, logger zerolog.Logger) (*Application, error) {
	profile := cfg.Current()

	answerer, err := remote.FromProfile(profile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create answerer: %w", err)
	}

	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(e eventbus.EventBusError) {
		logger.Warn().Err(e.Err).Str("operation", e.Operation).Msg("event bus error")
	})

	disp := dispatcher.NewEventDispatcher(eb)

	store := core.NewStore(answerer, nil)
	chatService := core.NewChatService(store, eb, logger, core.ServiceOptions{
		RequestTimeout: cfg.RequestTimeout(),
		Ready:          cfg.IsValid(),
	})

	banner := models.Banner{
		Profile:    cfg.CurrentName(),
		Endpoint:   profile.Target(),
		Configured: cfg.IsValid(),
	}

	logger.Info().
		Str("profile", cfg.CurrentName()).
		Str("backend", profile.BackendName()).
		Bool("configured", cfg.IsValid()).
		Dur("request_timeout", cfg.RequestTimeout()).
		Msg("application created")

	return &Application{
		config:     cfg,
		logger:     logger,
		eventBus:   eb,
		dispatcher: disp,
		service:    chatService,
		model: &AppModel{
			appModel:   createInitialAppModel(chatService, banner),
			dispatcher: disp,
		},
	}, nil
}

func (app *Application) Start() error {
	// Start background services
	app.service.Start()

	// Run UI
	p := tea.NewProgram(app.model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
	app.logger.Info().Msg("application stopped")
}

func createInitialAppModel(chatService *core.ChatService, banner models.Banner) models.AppModel {
	input := textinput.New()
	input.Placeholder = "Type your question..."
	input.Prompt = "> "
	input.CharLimit = 4000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	// No transcript in UI yet - it comes from core as single source of truth
	return models.AppModel{
		Input:            input,
		Viewport:         viewport.New(80, 20),
		Spinner:          spin,
		Status:           "Ready",
		ChatServiceReady: chatService.IsReady(),
		Banner:           banner,
	}
}
