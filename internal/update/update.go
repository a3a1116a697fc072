package update

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/EcoChat/internal/dispatcher"
	"github.com/Rorical/EcoChat/internal/eventbus"
	"github.com/Rorical/EcoChat/internal/models"
)

func HandleUpdateWithEventBus(appModel *models.AppModel, msg tea.Msg, eb *eventbus.EventBus) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsgWithEventBus(appModel, msg, eb)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, msg)
		return nil
	case spinner.TickMsg:
		return HandleSpinnerTick(appModel, msg)
	case dispatcher.CoreEventMsg:
		return HandleCoreEvent(appModel, msg, eb)
	case dispatcher.CoreClosedMsg:
		return HandleCoreClosed(appModel)
	case tea.MouseMsg:
		var cmd tea.Cmd
		appModel.Viewport, cmd = appModel.Viewport.Update(msg)
		return cmd
	}

	// Cursor blink and other widget-internal messages
	var cmd tea.Cmd
	appModel.Input, cmd = appModel.Input.Update(msg)
	return cmd
}
