package core

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Rorical/EcoChat/internal/models"
)

// Submit rejections. They leave the state untouched and are never shown to the user.
var (
	ErrEmptyInput     = errors.New("input is empty")
	ErrRequestPending = errors.New("a request is already in flight")
	ErrStoreClosed    = errors.New("store is closed")
)

// Store owns the conversation state. All transitions go through Submit and
// OnResponse; readers only ever see copies returned by Snapshot.
type Store struct {
	mu         sync.RWMutex
	transcript []models.Entry
	draft      string
	draftRev   uint64
	pending    bool
	alive      bool
	answerer   Answerer
	now        func() time.Time
}

// NewStore creates an empty, idle store. A nil now defaults to time.Now.
func NewStore(answerer Answerer, now func() time.Time) *Store {
	if answerer == nil {
		answerer = Unconfigured{}
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		transcript: make([]models.Entry, 0),
		alive:      true,
		answerer:   answerer,
		now:        now,
	}
}

// Submit appends text as a user entry and returns the request to run. It
// returns an error, and changes nothing, when text is blank, a request is
// already pending, or the store is closed.
func (s *Store) Submit(text string) (*Request, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive {
		return nil, ErrStoreClosed
	}
	if s.pending {
		return nil, ErrRequestPending
	}

	history := make([]models.Entry, len(s.transcript))
	copy(history, s.transcript)

	// Atomic: add user entry, clear draft, go pending
	s.transcript = append(s.transcript, models.Entry{
		Role:      models.RoleUser,
		Content:   text,
		Timestamp: s.now(),
	})
	s.draft = ""
	s.draftRev++
	s.pending = true

	return newRequest(s.answerer, Question{Text: text, History: history}), nil
}

// OnResponse applies the result of the in-flight request. It reports whether
// the result was applied; results arriving after Close or with nothing
// pending are dropped.
func (s *Store) OnResponse(res Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive || !s.pending {
		return false
	}

	entry := models.Entry{
		Role:      models.RoleAssistant,
		Content:   res.Answer,
		Timestamp: s.now(),
	}
	if res.Failed() {
		entry.Role = models.RoleSystemError
		entry.Content = FailureMessage
	}

	// Atomic: add response entry and leave AwaitingResponse
	s.transcript = append(s.transcript, entry)
	s.pending = false
	return true
}

func (s *Store) SetDraftInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

func (s *Store) IsPending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transcript := make([]models.Entry, len(s.transcript))
	copy(transcript, s.transcript)

	return models.Snapshot{
		Transcript:    transcript,
		DraftInput:    s.draft,
		DraftRevision: s.draftRev,
		Pending:       s.pending,
	}
}

// Close marks the store as torn down. Late responses are ignored afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alive = false
}

func (s *Store) IsAlive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alive
}
