// Package remote holds the answerer backends the chat core talks to.
package remote

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Rorical/EcoChat/internal/config"
	"github.com/Rorical/EcoChat/internal/core"
)

// FromProfile builds the answerer for p. An invalid profile yields
// core.Unconfigured so the UI still runs and every question fails visibly.
func FromProfile(p config.Profile, logger zerolog.Logger) (core.Answerer, error) {
	if !p.IsValid() {
		return core.Unconfigured{}, nil
	}

	switch p.BackendName() {
	case config.BackendHTTP:
		schema, err := ParseSchema(p.Schema)
		if err != nil {
			return nil, err
		}
		return NewHTTPAnswerer(HTTPOptions{
			Endpoint: p.Endpoint,
			Schema:   schema,
			UserID:   p.UserID,
			Logger:   logger,
		})
	case config.BackendOpenAI:
		return NewOpenAIAnswerer(OpenAIOptions{
			APIKey:       p.APIKey,
			BaseURL:      p.BaseURL,
			Model:        p.Model,
			SystemPrompt: p.SystemPrompt,
			Logger:       logger,
		})
	default:
		return nil, fmt.Errorf("unknown backend %q", p.Backend)
	}
}
