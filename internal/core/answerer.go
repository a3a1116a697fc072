package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Rorical/EcoChat/internal/models"
)

// FailureMessage is the fixed text of every system-error entry. Underlying
// errors are logged, never shown.
const FailureMessage = "Sorry, something went wrong getting a response. Please try again."

var (
	// ErrNoAnswerer is returned when the active profile has no usable backend.
	ErrNoAnswerer = errors.New("no answerer configured")
	// ErrEmptyAnswer is returned when the answerer succeeds with blank text.
	ErrEmptyAnswer = errors.New("answerer returned an empty answer")
)

// Question is the payload handed to an Answerer.
type Question struct {
	Text    string
	History []models.Entry // Transcript preceding Text, for history-aware backends
}

// Answerer is the remote answering service.
type Answerer interface {
	Ask(ctx context.Context, q Question) (string, error)
}

// AnswererFunc adapts a plain function to the Answerer interface.
type AnswererFunc func(ctx context.Context, q Question) (string, error)

func (f AnswererFunc) Ask(ctx context.Context, q Question) (string, error) {
	return f(ctx, q)
}

// Unconfigured is the answerer used when no backend is set up. Every call fails.
type Unconfigured struct{}

func (Unconfigured) Ask(context.Context, Question) (string, error) {
	return "", ErrNoAnswerer
}

// Result is the outcome of a single Request.
type Result struct {
	RequestID string
	Answer    string
	Err       error
	Latency   time.Duration
}

// Failed reports whether the result must take the failure branch.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Request is the single in-flight call issued by an accepted Submit. Run
// performs the call; its Result must be handed to Store.OnResponse once.
type Request struct {
	ID       string
	Question Question
	answerer Answerer
}

func newRequest(answerer Answerer, q Question) *Request {
	return &Request{
		ID:       uuid.New().String(),
		Question: q,
		answerer: answerer,
	}
}

// Run calls the answerer. It never panics and always returns a Result.
func (r *Request) Run(ctx context.Context) (res Result) {
	start := time.Now()
	res.RequestID = r.ID

	defer func() {
		if p := recover(); p != nil {
			res.Answer = ""
			res.Err = fmt.Errorf("answerer panicked: %v", p)
		}
		res.Latency = time.Since(start)
	}()

	answer, err := r.answerer.Ask(ctx, r.Question)
	if err != nil {
		res.Err = err
		return res
	}
	if strings.TrimSpace(answer) == "" {
		res.Err = ErrEmptyAnswer
		return res
	}
	res.Answer = answer
	return res
}
