package markdown

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{name: "paragraph soft break", source: "Returns are free\nwithin 30 days.", want: []string{"Returns are free within 30 days."}},
		{name: "heading", source: "## Shipping", want: []string{"Shipping"}},
		{name: "bullets", source: "- one\n- two", want: []string{"• one", "• two"}},
		{name: "ordered from start", source: "3. three\n4. four", want: []string{"3. three", "4. four"}},
		{name: "emphasis", source: "**bold** and *soft*", want: []string{"bold and soft"}},
		{name: "code span", source: "use `ecochat`", want: []string{"ecochat"}},
		{name: "fenced code", source: "```\nfmt.Println(1)\n```", want: []string{"fmt.Println(1)"}},
		{name: "quote", source: "> be kind", want: []string{"│ ", "be kind"}},
		{name: "link text", source: "[policy](https://example.com)", want: []string{"policy"}},
		{name: "rule", source: "a\n\n---\n\nb", want: []string{"───"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plain(Render(tt.source))
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestRender_NoMarkupLeaks(t *testing.T) {
	got := plain(Render("# Title\n\n**Note:** `x`"))
	assert.NotContains(t, got, "#")
	assert.NotContains(t, got, "**")
	assert.NotContains(t, got, "`")
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render(""))
}

func TestPrefixLines(t *testing.T) {
	assert.Equal(t, "1. a\n   b", prefixLines("a\nb", "1. ", "   "))
}
