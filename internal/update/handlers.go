package update

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/EcoChat/internal/dispatcher"
	"github.com/Rorical/EcoChat/internal/eventbus"
	"github.com/Rorical/EcoChat/internal/models"
	"github.com/Rorical/EcoChat/ui/components"
)

const (
	StatusReady         = "Ready"
	StatusWaiting       = "Waiting for answer"
	StatusNotConfigured = "Answerer not configured"
	StatusCoreClosed    = "Disconnected"
)

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit
	case tea.KeyEnter:
		// The store decides whether to accept; the input is cleared when the
		// next snapshot carries a new draft revision.
		if err := eb.SendToCore(eventbus.SubmitEvent{Text: appModel.Input.Value()}); err != nil {
			appModel.Status = "Error sending message: " + err.Error()
		}
		return nil
	case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		appModel.Viewport, cmd = appModel.Viewport.Update(keyMsg)
		return cmd
	}

	before := appModel.Input.Value()
	var cmd tea.Cmd
	appModel.Input, cmd = appModel.Input.Update(keyMsg)
	if after := appModel.Input.Value(); after != before {
		if err := eb.SendToCore(eventbus.DraftChangedEvent{Text: after}); err != nil {
			appModel.Status = "Error syncing input: " + err.Error()
		}
	}
	return cmd
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg dispatcher.CoreEventMsg, eb *eventbus.EventBus) tea.Cmd {
	event, ok := coreEventMsg.Event.(eventbus.StateUpdateEvent)
	if !ok {
		return nil
	}

	prev := appModel.Snapshot
	next := event.Snapshot
	appModel.Snapshot = next

	// Only store-side rewrites of the draft replace what is in the input box.
	// Keystrokes sent after the rewrite already reached the store, so the
	// store is told what the box holds now.
	if next.DraftRevision > appModel.SeenDraftRev {
		appModel.Input.SetValue(next.DraftInput)
		appModel.Input.CursorEnd()
		appModel.SeenDraftRev = next.DraftRevision
		if err := eb.SendToCore(eventbus.DraftChangedEvent{Text: appModel.Input.Value()}); err != nil {
			appModel.Status = "Error syncing input: " + err.Error()
		}
	}

	appModel.Status = statusFor(appModel)
	RefreshTranscript(appModel)
	if ShouldScroll(prev, next) {
		appModel.Viewport.GotoBottom()
	}

	if next.Pending && !prev.Pending {
		return appModel.Spinner.Tick
	}
	return nil
}

// ShouldScroll reports whether the view must jump to the newest entry: the
// transcript grew or the waiting indicator appeared or went away.
func ShouldScroll(prev, next models.Snapshot) bool {
	return len(next.Transcript) > len(prev.Transcript) || next.Pending != prev.Pending
}

func statusFor(appModel *models.AppModel) string {
	switch {
	case appModel.Snapshot.Pending:
		return StatusWaiting
	case !appModel.ChatServiceReady:
		return StatusNotConfigured
	default:
		return StatusReady
	}
}

// RefreshTranscript re-renders the viewport content from the current snapshot.
func RefreshTranscript(appModel *models.AppModel) {
	content := components.RenderTranscript(appModel.Snapshot.Transcript, appModel.Viewport.Width)
	if appModel.Snapshot.Pending {
		content += components.RenderTyping(appModel.Spinner.View())
	}
	appModel.Viewport.SetContent(content)
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height

	chrome := lipgloss.Height(components.RenderBanner(appModel.Banner)) +
		lipgloss.Height(components.RenderInput("", sizeMsg.Width)) +
		lipgloss.Height(components.RenderStatus("", false, "", sizeMsg.Width)) + 1

	appModel.Viewport.Width = sizeMsg.Width
	appModel.Viewport.Height = max(sizeMsg.Height-chrome, 1)
	appModel.Input.Width = max(sizeMsg.Width-8, 10)
	appModel.Ready = true

	RefreshTranscript(appModel)
	appModel.Viewport.GotoBottom()
}

// HandleSpinnerTick advances the waiting indicator while a request is pending.
func HandleSpinnerTick(appModel *models.AppModel, tick spinner.TickMsg) tea.Cmd {
	if !appModel.Snapshot.Pending {
		return nil
	}
	var cmd tea.Cmd
	appModel.Spinner, cmd = appModel.Spinner.Update(tick)

	atBottom := appModel.Viewport.AtBottom()
	RefreshTranscript(appModel)
	if atBottom {
		appModel.Viewport.GotoBottom()
	}
	return cmd
}

func HandleCoreClosed(appModel *models.AppModel) tea.Cmd {
	appModel.Status = StatusCoreClosed
	return tea.Quit
}
