package components

import (
	"github.com/Rorical/EcoChat/ui/styles"
)

func RenderStatus(status string, pending bool, spinnerView string, width int) string {
	statusContent := status
	if pending {
		statusContent = spinnerView + " " + status
	}

	return styles.StatusStyle(width).Render(statusContent)
}
