package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/chanstack/chanstack/internal/adapters/http/handlers"
	"github.com/chanstack/chanstack/internal/adapters/memory"
	"github.com/chanstack/chanstack/internal/app"
	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/domain/channel"
	"github.com/chanstack/chanstack/internal/fixtures"
)

// env bundles the handlers with the store they share, so tests can seed
// state directly and exercise the full handler-service-repository path.
type env struct {
	store      *memory.Store
	channels   *handlers.ChannelHandler
	validators *handlers.ValidatorHandler
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := memory.NewStore()
	logger := slog.New(slog.DiscardHandler)
	svc := app.NewChannelService(store.Validators(), store.Channels(), store.Events(), logger)

	return &env{
		store:      store,
		channels:   handlers.NewChannelHandler(svc),
		validators: handlers.NewValidatorHandler(svc),
	}
}

// seedValidators registers the fixed leader and follower so channels between
// them pass the registration check.
func (e *env) seedValidators(t *testing.T) {
	t.Helper()
	for _, id := range []domain.Address{fixtures.Leader(), fixtures.Follower()} {
		if err := e.store.Validators().Create(context.Background(), fixtures.Validator(id)); err != nil {
			t.Fatalf("seeding validator %s: %v", id, err)
		}
	}
}

// seedChannel registers the parties and opens the fixed channel with the
// given deposit.
func (e *env) seedChannel(t *testing.T, deposit domain.Amount) channel.Channel {
	t.Helper()
	e.seedValidators(t)
	c := fixtures.Channel(deposit)
	if err := e.store.Channels().Create(context.Background(), c); err != nil {
		t.Fatalf("seeding channel: %v", err)
	}
	return c
}

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
