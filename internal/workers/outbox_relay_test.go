package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
	"timelium/internal/core/postevent"
	eventPort "timelium/internal/ports/postevent"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mockOutbox in-memory outbox
type mockOutbox struct {
	mu         sync.Mutex
	events     []*postevent.PostEvent
	ShouldFail bool
}

func (m *mockOutbox) Create(ctx context.Context, evt *postevent.PostEvent) (*postevent.PostEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return evt, nil
}

func (m *mockOutbox) GetPending(ctx context.Context, limit int) ([]*postevent.PostEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errors.New("mock: get pending failed")
	}
	var out []*postevent.PostEvent
	for _, e := range m.events {
		if e.Status == postevent.StatusPending && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockOutbox) MarkDone(ctx context.Context, id uuid.UUID) error {
	return m.set(id, postevent.StatusDone)
}

func (m *mockOutbox) MarkFailed(ctx context.Context, id uuid.UUID) error {
	return m.set(id, postevent.StatusFailed)
}

func (m *mockOutbox) set(id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Status = status
		}
	}
	return nil
}

func (m *mockOutbox) status(id uuid.UUID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			return e.Status
		}
	}
	return ""
}

// mockPublisher records messages; failAfter < 0 never fails
type mockPublisher struct {
	mu          sync.Mutex
	sent        []eventPort.Message
	failAfter   int
	unencodable string // post ID whose payload cannot be encoded
}

func (p *mockPublisher) Publish(ctx context.Context, msg eventPort.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unencodable != "" && msg.PostID == p.unencodable {
		return fmt.Errorf("%w: event %s", eventPort.ErrUnencodable, msg.EventID)
	}
	if p.failAfter >= 0 && len(p.sent) >= p.failAfter {
		return errors.New("mock kafka write failed")
	}
	p.sent = append(p.sent, msg)
	return nil
}

func (p *mockPublisher) Close() error { return nil }

func (p *mockPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

func newEvent(t postevent.Type) *postevent.PostEvent {
	return postevent.New(t, uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()))
}

func TestRelayOnce_PublishesAndMarksDone(t *testing.T) {
	outbox := &mockOutbox{}
	a, b := newEvent(postevent.TypeCreated), newEvent(postevent.TypeLiked)
	outbox.Create(context.Background(), a)
	outbox.Create(context.Background(), b)
	pub := &mockPublisher{failAfter: -1}

	w := NewOutboxRelay(outbox, pub, 10, time.Millisecond, nil)
	n, err := w.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, postevent.StatusDone, outbox.status(a.ID))
	assert.Equal(t, postevent.StatusDone, outbox.status(b.ID))
	assert.Equal(t, a.PostID.String(), pub.sent[0].PostID)
	assert.Equal(t, postevent.TypeLiked, pub.sent[1].Type)
}

func TestRelayOnce_StopsBatchOnPublishFailure(t *testing.T) {
	outbox := &mockOutbox{}
	a, b := newEvent(postevent.TypeCreated), newEvent(postevent.TypeDeleted)
	outbox.Create(context.Background(), a)
	outbox.Create(context.Background(), b)
	pub := &mockPublisher{failAfter: 1}

	w := NewOutboxRelay(outbox, pub, 10, time.Millisecond, nil)
	n, err := w.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, postevent.StatusDone, outbox.status(a.ID))
	assert.Equal(t, postevent.StatusPending, outbox.status(b.ID))
}

func TestRelayOnce_InvalidRecordMarkedFailed(t *testing.T) {
	outbox := &mockOutbox{}
	bad := newEvent("post.unknown")
	outbox.Create(context.Background(), bad)
	pub := &mockPublisher{failAfter: -1}

	w := NewOutboxRelay(outbox, pub, 10, time.Millisecond, nil)
	n, err := w.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, postevent.StatusFailed, outbox.status(bad.ID))
	assert.Zero(t, pub.count())
}

func TestRelayOnce_UnencodableMarkedFailedAndBatchContinues(t *testing.T) {
	outbox := &mockOutbox{}
	bad, good := newEvent(postevent.TypeCreated), newEvent(postevent.TypeLiked)
	outbox.Create(context.Background(), bad)
	outbox.Create(context.Background(), good)
	pub := &mockPublisher{failAfter: -1, unencodable: bad.PostID.String()}

	w := NewOutboxRelay(outbox, pub, 10, time.Millisecond, nil)
	n, err := w.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, postevent.StatusFailed, outbox.status(bad.ID))
	assert.Equal(t, postevent.StatusDone, outbox.status(good.ID))

	// the failed row is not picked up again
	n, err = w.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, pub.count())
}

func TestRelayOnce_FetchError(t *testing.T) {
	w := NewOutboxRelay(&mockOutbox{ShouldFail: true}, &mockPublisher{failAfter: -1}, 10, time.Millisecond, nil)
	_, err := w.RelayOnce(context.Background())
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	outbox := &mockOutbox{}
	outbox.Create(context.Background(), newEvent(postevent.TypeCreated))
	pub := &mockPublisher{failAfter: -1}
	w := NewOutboxRelay(outbox, pub, 10, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop after cancel")
	}
}
