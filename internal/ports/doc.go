// Package ports defines interfaces between layers in the hexagonal
// architecture. Repository ports are implemented by storage adapters and
// called by the application layer; service ports are implemented by the
// application layer and called by inbound adapters (handlers, the worker).
//
// The repository contracts carry the consistency guarantees both the
// validator and sentry processes rely on; any backend, in-memory or
// relational, must honor them identically.
package ports
