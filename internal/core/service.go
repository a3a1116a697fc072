package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rorical/EcoChat/internal/eventbus"
)

// ServiceOptions tunes a ChatService.
type ServiceOptions struct {
	// RequestTimeout bounds each answerer call. Zero disables the watchdog.
	RequestTimeout time.Duration
	// Ready reports whether a real answerer is configured.
	Ready bool
}

// ChatService runs the single loop on which every Store mutation happens.
// Answerer calls run on their own goroutines and hand their Result back to
// the loop.
type ChatService struct {
	store    *Store
	eventBus *eventbus.EventBus
	logger   zerolog.Logger
	opts     ServiceOptions
	results  chan Result
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewChatService(store *Store, eb *eventbus.EventBus, logger zerolog.Logger, opts ServiceOptions) *ChatService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ChatService{
		store:    store,
		eventBus: eb,
		logger:   logger.With().Str("component", "chat_service").Logger(),
		opts:     opts,
		results:  make(chan Result, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs the core logic in a goroutine
func (cs *ChatService) Start() {
	// Send initial state to UI immediately
	cs.pushStateToUI()
	cs.wg.Add(1)
	go cs.eventLoop()
}

// Stop cancels outstanding work and closes the store so late answers are dropped.
func (cs *ChatService) Stop() {
	cs.stopOnce.Do(func() {
		cs.cancel()
		cs.store.Close()
		cs.wg.Wait()
	})
}

func (cs *ChatService) IsReady() bool {
	return cs.opts.Ready && cs.store.IsAlive()
}

func (cs *ChatService) Store() *Store {
	return cs.store
}

func (cs *ChatService) eventLoop() {
	defer cs.wg.Done()
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		case res := <-cs.results:
			cs.handleResult(res)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SubmitEvent:
		cs.submit(e.Text)
	case eventbus.DraftChangedEvent:
		cs.store.SetDraftInput(e.Text)
	}
}

func (cs *ChatService) submit(text string) {
	req, err := cs.store.Submit(text)
	if err != nil {
		cs.logger.Debug().Err(err).Msg("submission ignored")
		return
	}

	cs.logger.Info().
		Str("request_id", req.ID).
		Int("question_len", len(text)).
		Int("history_len", len(req.Question.History)).
		Msg("request issued")
	cs.pushStateToUI()

	go cs.run(req)
}

// run performs the request off the loop and posts the result back.
func (cs *ChatService) run(req *Request) {
	ctx := cs.ctx
	if cs.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(cs.ctx, cs.opts.RequestTimeout)
		defer cancel()
	}

	res := req.Run(ctx)

	select {
	case cs.results <- res:
	case <-cs.ctx.Done():
		cs.logger.Debug().Str("request_id", res.RequestID).Msg("dropping result after shutdown")
	}
}

func (cs *ChatService) handleResult(res Result) {
	if !cs.store.OnResponse(res) {
		cs.logger.Warn().Str("request_id", res.RequestID).Msg("response ignored")
		return
	}

	if res.Failed() {
		evt := cs.logger.Error().
			Err(res.Err).
			Str("request_id", res.RequestID).
			Dur("latency", res.Latency)
		if errors.Is(res.Err, context.DeadlineExceeded) {
			evt = evt.Bool("timeout", true)
		}
		evt.Msg("request failed")
	} else {
		cs.logger.Info().
			Str("request_id", res.RequestID).
			Dur("latency", res.Latency).
			Int("answer_len", len(res.Answer)).
			Msg("answer received")
	}

	cs.pushStateToUI()
}

func (cs *ChatService) pushStateToUI() {
	if err := cs.eventBus.SendToUI(eventbus.StateUpdateEvent{
		Snapshot: cs.store.Snapshot(),
	}); err != nil {
		// SendToUI replaces stale snapshots, so this only fails once the bus is closed
		cs.logger.Warn().Err(err).Msg("failed to push state to UI")
	}
}
