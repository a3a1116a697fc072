package remote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/Rorical/EcoChat/internal/core"
)

const httpBackend = "http"

// HTTPOptions configures an HTTPAnswerer.
type HTTPOptions struct {
	Endpoint string
	Schema   Schema
	UserID   string        // Only sent by SchemaChat
	Timeout  time.Duration // Transport timeout, zero means none
	Logger   zerolog.Logger
}

// HTTPAnswerer posts each question as JSON to a single endpoint.
type HTTPAnswerer struct {
	client   *resty.Client
	endpoint string
	codec    codec
	logger   zerolog.Logger
}

var _ core.Answerer = (*HTTPAnswerer)(nil)

func NewHTTPAnswerer(opts HTTPOptions) (*HTTPAnswerer, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	u, err := url.Parse(opts.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q", opts.Endpoint)
	}

	schema, err := ParseSchema(string(opts.Schema))
	if err != nil {
		return nil, err
	}
	userID := opts.UserID
	if userID == "" {
		userID = "default"
	}

	client := resty.New().
		SetHeader("User-Agent", "EcoChat/1.0").
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return &HTTPAnswerer{
		client:   client,
		endpoint: opts.Endpoint,
		codec:    codec{schema: schema, userID: userID},
		logger:   opts.Logger.With().Str("component", "http_answerer").Logger(),
	}, nil
}

// Ask sends one question. Any transport error, non-2xx status or payload
// that fails validation is returned as *Error.
func (a *HTTPAnswerer) Ask(ctx context.Context, q core.Question) (string, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(a.codec.body(q.Text)).
		Post(a.endpoint)
	if err != nil {
		return "", transportError(httpBackend, err)
	}

	status := resp.StatusCode()
	a.logger.Debug().
		Int("status", status).
		Dur("elapsed", resp.Time()).
		Str("schema", string(a.codec.schema)).
		Msg("answerer responded")

	if status < 200 || status >= 300 {
		return "", statusError(httpBackend, status, resp.String())
	}

	answer, err := a.codec.decode(resp.Body())
	if err != nil {
		return "", schemaError(httpBackend, err)
	}
	return answer, nil
}
