package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/chanstack/chanstack/internal/adapters/memory"
	"github.com/chanstack/chanstack/internal/app"
	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/domain/channel"
	"github.com/chanstack/chanstack/internal/fixtures"
	"github.com/chanstack/chanstack/internal/ports"
)

func newService(t *testing.T) (*app.ChannelService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := app.NewChannelService(store.Validators(), store.Channels(), store.Events(), logger)
	return svc, store
}

func registerParties(t *testing.T, svc *app.ChannelService) {
	t.Helper()
	ctx := context.Background()
	for _, id := range []domain.Address{fixtures.Leader(), fixtures.Follower()} {
		if err := svc.RegisterValidator(ctx, fixtures.Validator(id)); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
}

func TestRegisterValidator_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	v := fixtures.Validator(fixtures.Leader())
	if err := svc.RegisterValidator(ctx, v); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := svc.GetValidator(ctx, v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Equal(v) {
		t.Fatalf("got %+v, want %+v", got, v)
	}

	list, err := svc.ListValidators(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 validator, got %d", len(list))
	}
}

func TestRegisterValidator_RejectsInvalid(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)

	v := fixtures.Validator(fixtures.Leader())
	v.URL = "not-a-url"
	err := svc.RegisterValidator(context.Background(), v)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("register invalid = %v, want ErrValidation", err)
	}
}

func TestOpenChannel_RequiresRegisteredParties(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	c := fixtures.Channel(fixtures.Amount(100))
	_, err := svc.OpenChannel(ctx, c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("open with unknown parties = %v, want ErrValidation", err)
	}

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if _, ok := verr.Fields["leader"]; !ok {
		t.Error("expected a leader field error")
	}
	if _, ok := verr.Fields["follower"]; !ok {
		t.Error("expected a follower field error")
	}

	registerParties(t, svc)
	if _, err := svc.OpenChannel(ctx, c); err != nil {
		t.Fatalf("open with registered parties: %v", err)
	}
}

func TestChannelLifecycle(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()
	registerParties(t, svc)

	c := fixtures.Channel(fixtures.Amount(100))
	if _, err := svc.OpenChannel(ctx, c); err != nil {
		t.Fatalf("open: %v", err)
	}

	// Spend 60 of the 100 deposit.
	if err := svc.RecordSpend(ctx, fixtures.SpendEvent(1, fixtures.Amount(60))); err != nil {
		t.Fatalf("spend 60: %v", err)
	}

	// Spending 50 more would exceed the deposit.
	err := svc.RecordSpend(ctx, fixtures.SpendEvent(2, fixtures.Amount(50)))
	if !errors.Is(err, domain.ErrInsufficientDeposit) {
		t.Fatalf("overspend = %v, want ErrInsufficientDeposit", err)
	}

	closed, err := svc.CloseChannel(ctx, c.ID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != channel.StatusClosed {
		t.Fatalf("status = %s, want %s", closed.Status, channel.StatusClosed)
	}

	// A closed channel accepts no further spends or transitions.
	err = svc.RecordSpend(ctx, fixtures.SpendEvent(2, fixtures.Amount(10)))
	if !errors.Is(err, domain.ErrChannelClosed) {
		t.Fatalf("spend on closed = %v, want ErrChannelClosed", err)
	}
	_, err = svc.CloseChannel(ctx, c.ID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("re-close = %v, want ErrInvalidTransition", err)
	}
}

func TestWithdrawFlow(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()
	registerParties(t, svc)

	c := fixtures.Channel(fixtures.Amount(100))
	if _, err := svc.OpenChannel(ctx, c); err != nil {
		t.Fatalf("open: %v", err)
	}

	withdrawing, err := svc.BeginWithdraw(ctx, c.ID)
	if err != nil {
		t.Fatalf("begin withdraw: %v", err)
	}
	if withdrawing.Status != channel.StatusWithdrawing {
		t.Fatalf("status = %s, want %s", withdrawing.Status, channel.StatusWithdrawing)
	}

	done, err := svc.CompleteWithdraw(ctx, c.ID)
	if err != nil {
		t.Fatalf("complete withdraw: %v", err)
	}
	if done.Status != channel.StatusClosed {
		t.Fatalf("status = %s, want %s", done.Status, channel.StatusClosed)
	}
}

func TestListChannelsAndEvents(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()
	registerParties(t, svc)

	c := fixtures.Channel(fixtures.Amount(100))
	if _, err := svc.OpenChannel(ctx, c); err != nil {
		t.Fatalf("open: %v", err)
	}
	for seq := uint64(1); seq <= 3; seq++ {
		if err := svc.RecordSpend(ctx, fixtures.SpendEvent(seq, fixtures.Amount(10))); err != nil {
			t.Fatalf("spend %d: %v", seq, err)
		}
	}

	leader := fixtures.Leader()
	page, err := svc.ListChannels(ctx, ports.ChannelListQuery{Validator: &leader})
	if err != nil {
		t.Fatalf("list channels: %v", err)
	}
	if len(page.Channels) != 1 {
		t.Fatalf("expected 1 channel, got %d", len(page.Channels))
	}
	if !page.Channels[0].Spent.Equal(fixtures.Amount(30)) {
		t.Fatalf("spent = %s, want 30", page.Channels[0].Spent)
	}

	events, err := svc.ListEvents(ctx, c.ID, 2)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events from sequence 2, got %d", len(events))
	}
}
