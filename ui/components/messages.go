package components

import (
	"strings"
	"time"

	"github.com/Rorical/EcoChat/internal/models"
	"github.com/Rorical/EcoChat/ui/markdown"
	"github.com/Rorical/EcoChat/ui/styles"
)

const TimeLayout = "15:04"

func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimeLayout)
}

// RenderTranscript renders every entry in order. width is the usable
// terminal width; zero disables wrapping.
func RenderTranscript(entries []models.Entry, width int) string {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(RenderEntry(entry, width))
		b.WriteString("\n\n")
	}
	return b.String()
}

func RenderEntry(entry models.Entry, width int) string {
	var label, body string
	style := styles.AssistantStyle()

	switch entry.Role {
	case models.RoleUser:
		label = "You"
		body = entry.Content
		style = styles.UserStyle()
	case models.RoleAssistant:
		label = "Assistant"
		body = markdown.Render(entry.Content)
	case models.RoleSystemError:
		label = "Error"
		body = entry.Content
		style = styles.ErrorStyle()
	}

	if width > 8 {
		style = style.Width(width - 6)
	}

	header := styles.TimestampStyle().Render(label + " · " + FormatTimestamp(entry.Timestamp))
	return header + "\n" + style.Render(body)
}

// RenderTyping is the waiting indicator shown below the newest entry.
func RenderTyping(spinnerView string) string {
	return styles.TypingStyle().Render(spinnerView + " Assistant is typing...")
}

func RenderBanner(banner models.Banner) string {
	var b strings.Builder
	b.WriteString(styles.BannerStyle().Render("-- ECOCHAT --") + "\n")

	detail := styles.BannerDetailStyle()
	if banner.Configured {
		b.WriteString(detail.Render("Profile: "+banner.Profile+" [OK]  ->  "+banner.Endpoint) + "\n")
	} else {
		b.WriteString(detail.Render("Profile: "+banner.Profile+" [NOT CONFIGURED]") + "\n")
		b.WriteString(detail.Render("Run: ecochat profile add <name>") + "\n")
	}
	b.WriteString(detail.Render("Enter to send · PgUp/PgDn to scroll · Ctrl+C or Esc to exit") + "\n")
	return b.String()
}
