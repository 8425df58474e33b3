// Package memory provides an in-memory implementation of the repository
// ports. It is the reference backend for the repository contracts: every
// guarantee documented on the interfaces is implemented here with a single
// store-wide mutex, which makes the atomicity and isolation rules trivially
// true. Suitable for tests and single-process deployments.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/domain/channel"
	"github.com/chanstack/chanstack/internal/domain/event"
	"github.com/chanstack/chanstack/internal/domain/validator"
	"github.com/chanstack/chanstack/internal/ports"
)

// DefaultListLimit is the page size used when a list query does not set one.
const DefaultListLimit = 30

// Store holds validators, channels, and per-channel event logs behind one
// RWMutex. Events and the channel's spent balance live under the same lock,
// so an append and its balance effect commit together.
//
// The repository ports are exposed as views over the shared state:
// Validators(), Channels(), and Events() all operate on the same store.
type Store struct {
	mu         sync.RWMutex
	validators map[domain.Address]validator.Validator
	channels   map[domain.ChannelID]channel.Channel
	events     map[domain.ChannelID][]event.SpendEvent
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		validators: make(map[domain.Address]validator.Validator),
		channels:   make(map[domain.ChannelID]channel.Channel),
		events:     make(map[domain.ChannelID][]event.SpendEvent),
	}
}

// Validators returns the validator repository view.
func (s *Store) Validators() ports.ValidatorRepository { return validatorRepo{s} }

// Channels returns the channel repository view.
func (s *Store) Channels() ports.ChannelRepository { return channelRepo{s} }

// Events returns the event repository view.
func (s *Store) Events() ports.EventRepository { return eventRepo{s} }

// Name identifies the store to the health registry.
func (s *Store) Name() string { return "store" }

// HealthCheck reports healthy as long as the process is alive.
func (s *Store) HealthCheck(ctx context.Context) error {
	return ctxErr(ctx)
}

// ctxErr maps a context failure to the repository failure taxonomy.
func ctxErr(ctx context.Context) error {
	switch ctx.Err() {
	case nil:
		return nil
	case context.DeadlineExceeded:
		return fmt.Errorf("memory store: %w", domain.ErrTimeout)
	default:
		return fmt.Errorf("memory store: %w", domain.ErrUnavailable)
	}
}

type validatorRepo struct{ s *Store }

var _ ports.ValidatorRepository = validatorRepo{}

func (r validatorRepo) Get(ctx context.Context, id domain.Address) (validator.Validator, error) {
	if err := ctxErr(ctx); err != nil {
		return validator.Validator{}, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.validators[id]
	if !ok {
		return validator.Validator{}, fmt.Errorf("validator %s: %w", id, domain.ErrNotFound)
	}
	return v, nil
}

// Create stores a new validator record. Re-creating an identical record is
// a no-op; a differing record for the same address fails.
func (r validatorRepo) Create(ctx context.Context, v validator.Validator) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, ok := r.s.validators[v.ID]; ok {
		if existing.Equal(v) {
			return nil
		}
		return fmt.Errorf("validator %s: %w", v.ID, domain.ErrAlreadyExists)
	}
	r.s.validators[v.ID] = v
	return nil
}

func (r validatorRepo) List(ctx context.Context) ([]validator.Validator, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]validator.Validator, 0, len(r.s.validators))
	for _, v := range r.s.validators {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.Compare(out[j].ID) < 0
	})
	return out, nil
}

type channelRepo struct{ s *Store }

var _ ports.ChannelRepository = channelRepo{}

func (r channelRepo) Get(ctx context.Context, id domain.ChannelID) (channel.Channel, error) {
	if err := ctxErr(ctx); err != nil {
		return channel.Channel{}, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.channelLocked(id)
}

func (r channelRepo) Create(ctx context.Context, c channel.Channel) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, ok := r.s.channels[c.ID]; ok {
		if existing.Equal(c) {
			return nil
		}
		return fmt.Errorf("channel %s: %w", c.ID, domain.ErrAlreadyExists)
	}
	r.s.channels[c.ID] = c
	return nil
}

// Update applies mutate under the write lock. The mutated channel must keep
// its identifier and pass validation; otherwise the stored state is
// untouched.
func (r channelRepo) Update(ctx context.Context, id domain.ChannelID, mutate ports.ChannelMutation) (channel.Channel, error) {
	if err := ctxErr(ctx); err != nil {
		return channel.Channel{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, err := r.s.channelLocked(id)
	if err != nil {
		return channel.Channel{}, err
	}

	next, err := mutate(current)
	if err != nil {
		return channel.Channel{}, err
	}
	if next.ID != id {
		return channel.Channel{}, fmt.Errorf("mutation changed channel id: %w", domain.ErrConflict)
	}
	if err := next.Validate(); err != nil {
		return channel.Channel{}, err
	}

	r.s.channels[id] = next
	return next, nil
}

// List returns a page of channels ordered by identifier bytes. A zero page
// or limit falls back to page 1 and DefaultListLimit.
func (r channelRepo) List(ctx context.Context, q ports.ChannelListQuery) (ports.ChannelPage, error) {
	if err := ctxErr(ctx); err != nil {
		return ports.ChannelPage{}, err
	}

	page := q.Page
	if page == 0 {
		page = 1
	}
	limit := uint64(q.Limit)
	if limit == 0 {
		limit = DefaultListLimit
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]channel.Channel, 0, len(r.s.channels))
	for _, c := range r.s.channels {
		if !channelMatches(c, q) {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool {
		return bytes.Compare(matched[i].ID[:], matched[j].ID[:]) < 0
	})

	total := uint64(len(matched))
	totalPages := total / limit
	if total%limit != 0 || total == 0 {
		totalPages++
	}

	start := (page - 1) * limit
	if start >= total {
		return ports.ChannelPage{Channels: []channel.Channel{}, TotalPages: totalPages}, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return ports.ChannelPage{Channels: matched[start:end], TotalPages: totalPages}, nil
}

func channelMatches(c channel.Channel, q ports.ChannelListQuery) bool {
	if q.Validator != nil && c.Leader != *q.Validator && c.Follower != *q.Validator {
		return false
	}
	if q.ValidUntilGE != nil {
		if c.ValidUntil == nil || c.ValidUntil.Before(*q.ValidUntilGE) {
			return false
		}
	}
	return true
}

type eventRepo struct{ s *Store }

var _ ports.EventRepository = eventRepo{}

// Append commits a spend event and its balance effect in one critical
// section. On any error nothing is recorded.
func (r eventRepo) Append(ctx context.Context, e event.SpendEvent) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, err := r.s.channelLocked(e.ChannelID)
	if err != nil {
		return err
	}
	if current.IsClosed() {
		return fmt.Errorf("channel %s: %w", e.ChannelID, domain.ErrChannelClosed)
	}

	log := r.s.events[e.ChannelID]
	var last uint64
	if n := len(log); n > 0 {
		last = log[n-1].Sequence
	}
	if e.Sequence != last+1 {
		return fmt.Errorf("channel %s: got sequence %d, want %d: %w",
			e.ChannelID, e.Sequence, last+1, domain.ErrSequenceConflict)
	}

	next, err := current.ApplySpend(e.Amount)
	if err != nil {
		return err
	}

	r.s.channels[e.ChannelID] = next
	r.s.events[e.ChannelID] = append(log, e)
	return nil
}

func (r eventRepo) List(ctx context.Context, id domain.ChannelID, fromSeq uint64) ([]event.SpendEvent, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, err := r.s.channelLocked(id); err != nil {
		return nil, err
	}

	log := r.s.events[id]
	// The log is sequence-ordered and gap-free, so the slice point is the
	// first index with sequence >= fromSeq.
	i := sort.Search(len(log), func(i int) bool { return log[i].Sequence >= fromSeq })

	out := make([]event.SpendEvent, len(log)-i)
	copy(out, log[i:])
	return out, nil
}

func (r eventRepo) LastSequence(ctx context.Context, id domain.ChannelID) (uint64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, err := r.s.channelLocked(id); err != nil {
		return 0, err
	}

	log := r.s.events[id]
	if len(log) == 0 {
		return 0, nil
	}
	return log[len(log)-1].Sequence, nil
}

// channelLocked looks up a channel; callers hold s.mu.
func (s *Store) channelLocked(id domain.ChannelID) (channel.Channel, error) {
	c, ok := s.channels[id]
	if !ok {
		return channel.Channel{}, fmt.Errorf("channel %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}
