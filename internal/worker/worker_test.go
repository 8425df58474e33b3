package worker_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/domain/channel"
	"github.com/chanstack/chanstack/internal/domain/event"
	"github.com/chanstack/chanstack/internal/fixtures"
	"github.com/chanstack/chanstack/internal/platform/config"
	"github.com/chanstack/chanstack/internal/ports"
	"github.com/chanstack/chanstack/internal/worker"
)

// fakeSentry is a scriptable ports.SentryClient. Unset hooks fail the
// calling test so each test only scripts the calls it expects.
type fakeSentry struct {
	t *testing.T

	listChannels func(ports.ChannelListQuery) (ports.ChannelPage, error)
	listEvents   func(domain.ChannelID, uint64) ([]event.SpendEvent, error)
	submitEvent  func(event.SpendEvent) error
	closeChannel func(domain.ChannelID) (channel.Channel, error)
}

func (f *fakeSentry) ListChannels(_ context.Context, q ports.ChannelListQuery) (ports.ChannelPage, error) {
	if f.listChannels == nil {
		f.t.Fatal("unexpected ListChannels call")
	}
	return f.listChannels(q)
}

func (f *fakeSentry) GetChannel(context.Context, domain.ChannelID) (channel.Channel, error) {
	f.t.Fatal("unexpected GetChannel call")
	return channel.Channel{}, nil
}

func (f *fakeSentry) ListEvents(_ context.Context, id domain.ChannelID, fromSeq uint64) ([]event.SpendEvent, error) {
	if f.listEvents == nil {
		f.t.Fatal("unexpected ListEvents call")
	}
	return f.listEvents(id, fromSeq)
}

func (f *fakeSentry) SubmitEvent(_ context.Context, e event.SpendEvent) error {
	if f.submitEvent == nil {
		f.t.Fatal("unexpected SubmitEvent call")
	}
	return f.submitEvent(e)
}

func (f *fakeSentry) CloseChannel(_ context.Context, id domain.ChannelID) (channel.Channel, error) {
	if f.closeChannel == nil {
		f.t.Fatal("unexpected CloseChannel call")
	}
	return f.closeChannel(id)
}

func testWorkerConfig() config.WorkerConfig {
	return config.WorkerConfig{
		TickInterval: time.Second,
		TickTimeout:  time.Second,
		MaxChannels:  512,
	}
}

func singlePage(channels ...channel.Channel) func(ports.ChannelListQuery) (ports.ChannelPage, error) {
	return func(ports.ChannelListQuery) (ports.ChannelPage, error) {
		return ports.ChannelPage{Channels: channels, TotalPages: 1}, nil
	}
}

func newWorker(client ports.SentryClient) *worker.Worker {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return worker.New(client, fixtures.Leader(), testWorkerConfig(), logger)
}

func TestTick_PropagatesHeartbeat(t *testing.T) {
	t.Parallel()

	ch := fixtures.Channel(fixtures.Amount(100))

	var submitted []event.SpendEvent
	fake := &fakeSentry{
		t:            t,
		listChannels: singlePage(ch),
		listEvents: func(id domain.ChannelID, fromSeq uint64) ([]event.SpendEvent, error) {
			if id != ch.ID {
				t.Errorf("ListEvents id = %v, want %v", id, ch.ID)
			}
			if fromSeq != 1 {
				t.Errorf("fromSeq = %d, want 1 on first tick", fromSeq)
			}
			return []event.SpendEvent{
				fixtures.SpendEvent(1, fixtures.Amount(10)),
				fixtures.SpendEvent(2, fixtures.Amount(20)),
			}, nil
		},
		submitEvent: func(e event.SpendEvent) error {
			submitted = append(submitted, e)
			return nil
		},
	}

	w := newWorker(fake)
	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	if len(submitted) != 1 {
		t.Fatalf("submitted %d events, want 1 heartbeat", len(submitted))
	}
	hb := submitted[0]
	if hb.Sequence != 3 {
		t.Errorf("heartbeat sequence = %d, want 3 (after two synced events)", hb.Sequence)
	}
	if hb.Signer != fixtures.Leader() {
		t.Errorf("heartbeat signer = %v, want the worker's own address", hb.Signer)
	}
	if !hb.Amount.IsZero() {
		t.Errorf("heartbeat amount = %v, want zero", hb.Amount)
	}
}

func TestTick_AdvancesCursorAcrossTicks(t *testing.T) {
	t.Parallel()

	ch := fixtures.Channel(fixtures.Amount(100))

	var fromSeqs []uint64
	fake := &fakeSentry{
		t:            t,
		listChannels: singlePage(ch),
		listEvents: func(_ domain.ChannelID, fromSeq uint64) ([]event.SpendEvent, error) {
			fromSeqs = append(fromSeqs, fromSeq)
			return nil, nil
		},
		submitEvent: func(event.SpendEvent) error { return nil },
	}

	w := newWorker(fake)
	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("first Tick() error = %v", err)
	}
	if err := w.Tick(context.Background()); err != nil {
		t.Fatalf("second Tick() error = %v", err)
	}

	// First tick starts at 1 and appends heartbeat 1; second tick resumes
	// past it.
	want := []uint64{1, 2}
	if len(fromSeqs) != len(want) || fromSeqs[0] != want[0] || fromSeqs[1] != want[1] {
		t.Errorf("fromSeq per tick = %v, want %v", fromSeqs, want)
	}
}

func TestTick_HeartbeatConflictIsBenign(t *testing.T) {
	t.Parallel()

	ch := fixtures.Channel(fixtures.Amount(100))

	fake := &fakeSentry{
		t:            t,
		listChannels: singlePage(ch),
		listEvents: func(domain.ChannelID, uint64) ([]event.SpendEvent, error) {
			return nil, nil
		},
		submitEvent: func(event.SpendEvent) error {
			return domain.ErrConflict
		},
	}

	if err := newWorker(fake).Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v, want nil when losing the sequence race", err)
	}
}

func TestTick_ClosesExpiredChannel(t *testing.T) {
	t.Parallel()

	ch := fixtures.Channel(fixtures.Amount(100))
	past := fixtures.CreatedAt() // well in the past
	ch.ValidUntil = &past

	var closedID domain.ChannelID
	fake := &fakeSentry{
		t:            t,
		listChannels: singlePage(ch),
		closeChannel: func(id domain.ChannelID) (channel.Channel, error) {
			closedID = id
			closed, err := ch.Close()
			if err != nil {
				t.Fatalf("closing fixture channel: %v", err)
			}
			return closed, nil
		},
	}

	if err := newWorker(fake).Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if closedID != ch.ID {
		t.Errorf("closed channel = %v, want %v", closedID, ch.ID)
	}
}

func TestTick_SkipsClosedChannel(t *testing.T) {
	t.Parallel()

	ch := fixtures.Channel(fixtures.Amount(100))
	ch.Status = channel.StatusClosed

	fake := &fakeSentry{
		t:            t,
		listChannels: singlePage(ch),
		// No listEvents, submitEvent, or closeChannel hooks: any such call
		// fails the test.
	}

	if err := newWorker(fake).Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
}

func TestTick_SequenceGapStopsChannel(t *testing.T) {
	t.Parallel()

	ch := fixtures.Channel(fixtures.Amount(100))

	fake := &fakeSentry{
		t:            t,
		listChannels: singlePage(ch),
		listEvents: func(domain.ChannelID, uint64) ([]event.SpendEvent, error) {
			// Sequence 2 without sequence 1: a gap the worker must not
			// accept. No heartbeat should follow.
			return []event.SpendEvent{fixtures.SpendEvent(2, fixtures.Amount(10))}, nil
		},
	}

	if err := newWorker(fake).Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v, per-channel failures are logged not returned", err)
	}
}

func TestTick_ListFailureAbortsTick(t *testing.T) {
	t.Parallel()

	fake := &fakeSentry{
		t: t,
		listChannels: func(ports.ChannelListQuery) (ports.ChannelPage, error) {
			return ports.ChannelPage{}, domain.ErrUnavailable
		},
	}

	if err := newWorker(fake).Tick(context.Background()); err == nil {
		t.Fatal("Tick() error = nil, want listing failure propagated")
	}
}

func TestTick_PaginatesAndFiltersBySelf(t *testing.T) {
	t.Parallel()

	var pages []uint64
	fake := &fakeSentry{
		t: t,
		listChannels: func(q ports.ChannelListQuery) (ports.ChannelPage, error) {
			pages = append(pages, q.Page)
			if q.Validator == nil || *q.Validator != fixtures.Leader() {
				t.Error("list query does not filter by the worker's address")
			}
			return ports.ChannelPage{TotalPages: 3}, nil
		},
	}

	if err := newWorker(fake).Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	want := []uint64{1, 2, 3}
	if len(pages) != len(want) {
		t.Fatalf("requested pages = %v, want %v", pages, want)
	}
	for i := range want {
		if pages[i] != want[i] {
			t.Errorf("page[%d] = %d, want %d", i, pages[i], want[i])
		}
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	fake := &fakeSentry{
		t:            t,
		listChannels: singlePage(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newWorker(fake).Run(ctx)
	if err == nil {
		t.Fatal("Run() error = nil, want context.Canceled")
	}
}
