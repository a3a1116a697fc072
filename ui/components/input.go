package components

import (
	"github.com/Rorical/EcoChat/ui/styles"
)

func RenderInput(inputView string, width int) string {
	return styles.InputStyle(width).Render(inputView)
}
