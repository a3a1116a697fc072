package core

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/EcoChat/internal/eventbus"
	"github.com/Rorical/EcoChat/internal/models"
)

func newTestService(t *testing.T, answerer Answerer, timeout time.Duration) (*ChatService, *eventbus.EventBus) {
	t.Helper()
	eb := eventbus.NewEventBus()
	svc := NewChatService(NewStore(answerer, fakeClock()), eb, zerolog.Nop(), ServiceOptions{
		RequestTimeout: timeout,
		Ready:          true,
	})
	svc.Start()
	t.Cleanup(func() {
		svc.Stop()
		eb.Close()
	})
	return svc, eb
}

// waitForSnapshot drains state updates until match returns true.
func waitForSnapshot(t *testing.T, eb *eventbus.EventBus, match func(models.Snapshot) bool) models.Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-eb.CoreToUI():
			update, ok := event.(eventbus.StateUpdateEvent)
			require.True(t, ok)
			if match(update.Snapshot) {
				return update.Snapshot
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

func settled(n int) func(models.Snapshot) bool {
	return func(s models.Snapshot) bool {
		return len(s.Transcript) == n && !s.Pending
	}
}

func TestChatService_PushesInitialState(t *testing.T) {
	_, eb := newTestService(t, answerWith("a", nil), 0)

	snap := waitForSnapshot(t, eb, func(models.Snapshot) bool { return true })
	assert.Empty(t, snap.Transcript)
	assert.False(t, snap.Pending)
}

func TestChatService_SubmitRoundTrip(t *testing.T) {
	svc, eb := newTestService(t, answerWith("It is a shopping assistant.", nil), time.Second)

	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Text: "What is EcoCart?"}))

	snap := waitForSnapshot(t, eb, settled(2))
	assert.Equal(t, "What is EcoCart?", snap.Transcript[0].Content)
	assert.Equal(t, models.RoleAssistant, snap.Transcript[1].Role)
	assert.Equal(t, "It is a shopping assistant.", snap.Transcript[1].Content)
	assert.True(t, svc.IsReady())
}

func TestChatService_FailureBecomesErrorEntry(t *testing.T) {
	_, eb := newTestService(t, answerWith("", errNetwork), time.Second)

	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Text: "ping"}))

	snap := waitForSnapshot(t, eb, settled(2))
	assert.Equal(t, models.RoleSystemError, snap.Transcript[1].Role)
	assert.Equal(t, FailureMessage, snap.Transcript[1].Content)
}

func TestChatService_IgnoresOverlappingSubmit(t *testing.T) {
	release := make(chan struct{})
	svc, eb := newTestService(t, AnswererFunc(func(ctx context.Context, q Question) (string, error) {
		<-release
		return "answer to " + q.Text, nil
	}), 0)

	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Text: "a"}))
	waitForSnapshot(t, eb, func(s models.Snapshot) bool { return s.Pending })

	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Text: "b"}))
	require.NoError(t, eb.SendToCore(eventbus.DraftChangedEvent{Text: "b"}))
	require.Eventually(t, func() bool {
		return svc.Store().Snapshot().DraftInput == "b"
	}, time.Second, 5*time.Millisecond)

	close(release)

	snap := waitForSnapshot(t, eb, settled(2))
	assert.Equal(t, "a", snap.Transcript[0].Content)
	assert.Equal(t, "answer to a", snap.Transcript[1].Content)
	assert.Equal(t, "b", snap.DraftInput)
}

func TestChatService_TimeoutBecomesErrorEntry(t *testing.T) {
	_, eb := newTestService(t, AnswererFunc(func(ctx context.Context, q Question) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), 20*time.Millisecond)

	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Text: "slow"}))

	snap := waitForSnapshot(t, eb, settled(2))
	assert.Equal(t, models.RoleSystemError, snap.Transcript[1].Role)
}

func TestChatService_StopDropsLateResponse(t *testing.T) {
	release := make(chan struct{})
	eb := eventbus.NewEventBus()
	svc := NewChatService(NewStore(AnswererFunc(func(ctx context.Context, q Question) (string, error) {
		<-release
		return "too late", nil
	}), fakeClock()), eb, zerolog.Nop(), ServiceOptions{})
	svc.Start()
	defer eb.Close()

	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Text: "q"}))
	waitForSnapshot(t, eb, func(s models.Snapshot) bool { return s.Pending })

	svc.Stop()
	close(release)

	// Give the request goroutine a chance to finish
	time.Sleep(20 * time.Millisecond)

	snap := svc.Store().Snapshot()
	assert.Len(t, snap.Transcript, 1)
	assert.False(t, svc.Store().IsAlive())
	assert.False(t, svc.IsReady())
}

func TestChatService_DraftChangedUpdatesStore(t *testing.T) {
	svc, eb := newTestService(t, answerWith("a", nil), 0)

	require.NoError(t, eb.SendToCore(eventbus.DraftChangedEvent{Text: "half typed"}))

	require.Eventually(t, func() bool {
		return svc.Store().Snapshot().DraftInput == "half typed"
	}, time.Second, 5*time.Millisecond)
}

func TestChatService_EmptySubmitPushesNothing(t *testing.T) {
	svc, eb := newTestService(t, answerWith("a", nil), 0)
	waitForSnapshot(t, eb, func(models.Snapshot) bool { return true })

	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Text: "   "}))
	require.NoError(t, eb.SendToCore(eventbus.DraftChangedEvent{Text: "marker"}))
	require.Eventually(t, func() bool {
		return svc.Store().Snapshot().DraftInput == "marker"
	}, time.Second, 5*time.Millisecond)

	select {
	case event := <-eb.CoreToUI():
		t.Fatalf("unexpected event %#v", event)
	default:
	}
	assert.Empty(t, svc.Store().Snapshot().Transcript)
}

func TestChatService_SlowUIStillSeesFinalState(t *testing.T) {
	eb := eventbus.NewEventBusWithSize(1)
	svc := NewChatService(NewStore(answerWith("It is a shopping assistant.", nil), fakeClock()), eb, zerolog.Nop(), ServiceOptions{Ready: true})
	svc.Start()
	t.Cleanup(func() {
		svc.Stop()
		eb.Close()
	})

	// Nothing is read from the UI side until the exchange is over
	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Text: "What is EcoCart?"}))
	require.Eventually(t, func() bool {
		snap := svc.Store().Snapshot()
		return len(snap.Transcript) == 2 && !snap.Pending
	}, 2*time.Second, 10*time.Millisecond)

	// Earlier pushes were replaced; the final one is still delivered
	snap := waitForSnapshot(t, eb, settled(2))
	assert.Equal(t, models.RoleAssistant, snap.Transcript[1].Role)
}
