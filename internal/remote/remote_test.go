package remote

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/EcoChat/internal/config"
	"github.com/Rorical/EcoChat/internal/core"
)

func TestFromProfile(t *testing.T) {
	a, err := FromProfile(config.Profile{Backend: "http", Endpoint: "http://localhost:8001/ask"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &HTTPAnswerer{}, a)

	a, err = FromProfile(config.Profile{Backend: "openai", APIKey: "k"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &OpenAIAnswerer{}, a)

	a, err = FromProfile(config.Profile{Backend: "openai"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, core.Unconfigured{}, a)

	_, err = FromProfile(config.Profile{Endpoint: "http://localhost:8001/ask", Schema: "soap"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestError_Message(t *testing.T) {
	err := statusError("http", 500, `{"detail":"boom"}`)
	assert.Contains(t, err.Error(), "status 500 Internal Server Error")
	assert.Contains(t, err.Error(), "[http][STATUS]")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))

	// "é" is two bytes; a cut inside it backs off to the rune start
	got := truncate("aé", 2)
	assert.Equal(t, "a...", got)
	assert.True(t, utf8.ValidString(got))

	got = truncate(strings.Repeat("€", 100), 200)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("€", 66)+"...", got)
}
