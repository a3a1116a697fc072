package eventbus

import (
	"errors"
	"sync"
	"time"

	"github.com/Rorical/EcoChat/internal/models"
)

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrBusClosed   = errors.New("event bus is closed")
	ErrCoreFull    = errors.New("UI to Core channel is full")
	ErrUIFull      = errors.New("Core to UI channel is full")
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// SubmitEvent - UI asks core to submit the typed text
type SubmitEvent struct {
	Text string
}

func (e SubmitEvent) UIEvent() {}

// DraftChangedEvent - UI reports the current contents of the input field
type DraftChangedEvent struct {
	Text string
}

func (e DraftChangedEvent) UIEvent() {}

// StateUpdateEvent - Core pushes a full state snapshot to UI
type StateUpdateEvent struct {
	Snapshot models.Snapshot
}

func (e StateUpdateEvent) CoreEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

func (e EventBusError) Unwrap() error {
	return e.Err
}

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreaker implements circuit breaker pattern
type CircuitBreaker struct {
	mu              sync.Mutex
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
	now             func() time.Time
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
		now:          time.Now,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitOpen && cb.now().Sub(cb.lastFailureTime) > cb.resetTimeout {
		cb.state = CircuitHalfOpen
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailureTime = cb.now()

	// A failure while half-open trips straight back to open
	if cb.failureCount >= cb.maxFailures || cb.state == CircuitHalfOpen {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// EventBus handles communication between UI and Core with circuit breaker
type EventBus struct {
	mu             sync.RWMutex
	closed         bool
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	errorCallback  func(EventBusError)
	coreBreaker    *CircuitBreaker // UI to core
	uiBreaker      *CircuitBreaker // Core to UI
}

func NewEventBus() *EventBus {
	return NewEventBusWithSize(100)
}

func NewEventBusWithSize(size int) *EventBus {
	return &EventBus{
		uiToCore:       make(chan UIEvent, size),
		coreToUI:       make(chan CoreEvent, size),
		coreBreaker:    NewCircuitBreaker(5, 30*time.Second),
		uiBreaker:      NewCircuitBreaker(5, 30*time.Second),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.errorCallback = callback
}

// reportError notifies the error callback. Rejections by an already open
// breaker are reported without counting as new failures.
func (eb *EventBus) reportError(operation string, cb *CircuitBreaker, err error, trip bool) {
	if trip {
		cb.RecordFailure()
	}

	eb.mu.RLock()
	callback := eb.errorCallback
	eb.mu.RUnlock()

	if callback != nil {
		callback(EventBusError{
			Operation: operation,
			Err:       err,
			Timestamp: time.Now(),
		})
	}
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	return eb.send("SendToCore", eb.coreBreaker, ErrCoreFull, func() bool {
		select {
		case eb.uiToCore <- event:
			return true
		default:
			return false
		}
	})
}

// SendToUI never blocks. Core events are full snapshots, so when the UI
// falls behind the oldest queued event is replaced by the newest one.
func (eb *EventBus) SendToUI(event CoreEvent) error {
	return eb.send("SendToUI", eb.uiBreaker, ErrUIFull, func() bool {
		select {
		case eb.coreToUI <- event:
			return true
		default:
		}
		select {
		case <-eb.coreToUI:
		default:
		}
		select {
		case eb.coreToUI <- event:
			return true
		default:
			return false
		}
	})
}

func (eb *EventBus) send(operation string, cb *CircuitBreaker, fullErr error, push func() bool) error {
	if cb.IsOpen() {
		eb.reportError(operation, cb, ErrCircuitOpen, false)
		return ErrCircuitOpen
	}

	eb.mu.RLock()
	if eb.closed {
		eb.mu.RUnlock()
		return ErrBusClosed
	}
	delivered := push()
	eb.mu.RUnlock()

	if !delivered {
		eb.reportError(operation, cb, fullErr, true)
		return fullErr
	}
	cb.RecordSuccess()
	return nil
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

// CoreBreakerState reports the breaker guarding UI to core sends.
func (eb *EventBus) CoreBreakerState() CircuitBreakerState {
	return eb.coreBreaker.State()
}

// UIBreakerState reports the breaker guarding core to UI sends.
func (eb *EventBus) UIBreakerState() CircuitBreakerState {
	return eb.uiBreaker.State()
}

// Close closes both channels. Further sends return ErrBusClosed.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return
	}
	eb.closed = true
	close(eb.uiToCore)
	close(eb.coreToUI)
}
