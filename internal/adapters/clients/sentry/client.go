package sentry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/chanstack/chanstack/internal/adapters/http/dto"
	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/domain/channel"
	"github.com/chanstack/chanstack/internal/domain/event"
	"github.com/chanstack/chanstack/internal/platform/httpclient"
	"github.com/chanstack/chanstack/internal/ports"
)

// Compile-time interface check.
var _ ports.SentryClient = (*Client)(nil)

// Client is the outbound adapter for a sentry node's HTTP API. It implements
// [ports.SentryClient] for the validator worker.
//
// The entities carry their own canonical JSON codecs, so responses decode
// straight into domain types and re-validate on the way in. HTTP errors are
// mapped to domain errors (ErrNotFound, ErrChannelClosed, etc.) by
// [TranslateHTTPError].
//
// The underlying [httpclient.Client] provides circuit breaking, retry with
// exponential backoff, rate limiting, OpenTelemetry tracing, and health
// checking ([ports.HealthChecker]) for every outbound call.
type Client struct {
	req    *requester
	logger *slog.Logger
}

// NewClient creates a Client that sends requests through the given
// [httpclient.Client]. The client's BaseURL should point to the sentry root
// (e.g. "http://localhost:8005").
func NewClient(client *httpclient.Client, logger *slog.Logger) *Client {
	return &Client{
		req:    newRequester(client, logger),
		logger: logger,
	}
}

// ListChannels fetches a page of channels from GET /channel/list. Query
// parameters mirror the sentry's list endpoint; zero-valued fields are
// omitted and the sentry applies its defaults.
func (c *Client) ListChannels(ctx context.Context, q ports.ChannelListQuery) (ports.ChannelPage, error) {
	path := "/channel/list" + listQuery(q)

	var resp dto.ChannelListResponse
	if err := c.req.get(ctx, path, http.StatusOK, &resp); err != nil {
		return ports.ChannelPage{}, err
	}
	return ports.ChannelPage{
		Channels:   resp.Channels,
		TotalPages: resp.TotalPages,
	}, nil
}

// GetChannel fetches a single channel from GET /channel/{id}.
// Returns [domain.ErrNotFound] if the sentry does not know the channel.
func (c *Client) GetChannel(ctx context.Context, id domain.ChannelID) (channel.Channel, error) {
	path := "/channel/" + id.String()

	var ch channel.Channel
	if err := c.req.get(ctx, path, http.StatusOK, &ch); err != nil {
		return channel.Channel{}, err
	}
	return ch, nil
}

// ListEvents fetches a channel's spend events with sequence >= fromSeq from
// GET /channel/{id}/events. Returns [domain.ErrNotFound] if the sentry does
// not know the channel.
func (c *Client) ListEvents(ctx context.Context, id domain.ChannelID, fromSeq uint64) ([]event.SpendEvent, error) {
	path := "/channel/" + id.String() + "/events"
	if fromSeq > 0 {
		path += "?fromSeq=" + strconv.FormatUint(fromSeq, 10)
	}

	var resp dto.EventListResponse
	if err := c.req.get(ctx, path, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// SubmitEvent propagates a spend event to POST /channel/{id}/events. The
// sentry applies the same append rules as local storage, so the full append
// failure taxonomy can come back (ErrSequenceConflict surfaces as
// ErrConflict over the wire, ErrChannelClosed and ErrInsufficientDeposit
// keep their identity).
func (c *Client) SubmitEvent(ctx context.Context, e event.SpendEvent) error {
	path := "/channel/" + e.ChannelID.String() + "/events"

	ts := e.Timestamp
	body := dto.AppendEventRequest{
		Sequence:  e.Sequence,
		Amount:    e.Amount,
		Timestamp: &ts,
		Signer:    e.Signer,
	}

	return c.req.post(ctx, path, http.StatusCreated, body, nil)
}

// CloseChannel asks the sentry to close a channel via POST
// /channel/{id}/close and returns the closed channel.
func (c *Client) CloseChannel(ctx context.Context, id domain.ChannelID) (channel.Channel, error) {
	path := "/channel/" + id.String() + "/close"

	var ch channel.Channel
	if err := c.req.post(ctx, path, http.StatusOK, nil, &ch); err != nil {
		return channel.Channel{}, err
	}
	return ch, nil
}

// listQuery converts a [ports.ChannelListQuery] to a URL query string
// (including the leading "?"). Returns an empty string if no fields are set.
func listQuery(q ports.ChannelListQuery) string {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.FormatUint(q.Page, 10))
	}
	if q.Limit > 0 {
		v.Set("limit", fmt.Sprintf("%d", q.Limit))
	}
	if q.Validator != nil {
		v.Set("validator", q.Validator.String())
	}
	if q.ValidUntilGE != nil {
		v.Set("validUntilGe", strconv.FormatInt(q.ValidUntilGE.UnixMilli(), 10))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}
