package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Banner is the welcome information shown above the transcript
type Banner struct {
	Profile    string
	Endpoint   string
	Configured bool
}

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Snapshot         Snapshot        // Latest state pushed by core
	SeenDraftRev     uint64          // DraftRevision already applied to Input
	Input            textinput.Model // Local input widget, mirrors DraftInput
	Viewport         viewport.Model  // Scrollable transcript
	Spinner          spinner.Model   // Waiting indicator
	Status           string          // Status bar text
	Width            int             // Terminal width
	Height           int             // Terminal height
	Ready            bool            // Whether the viewport has been sized
	ChatServiceReady bool            // Whether an answerer is configured
	Banner           Banner
}
