// Package fetch retrieves raw stat rows from the configured upstream sources.
//
// Each source type (published CSV, REST table, Postgres table) is a Strategy
// registered by name. Fetch returns raw rows only; normalization is done by
// the caller.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
)

// Source types.
const (
	TypeCSV      = "csv"
	TypeREST     = "rest"
	TypePostgres = "postgres"
)

// Source represents one upstream table of stats.
type Source struct {
	Type   string `yaml:"type" validate:"required,oneof=csv rest postgres"`
	Name   string `yaml:"name" validate:"required"`
	URL    string `yaml:"url,omitempty" validate:"required_unless=Type postgres"`
	APIKey string `yaml:"api_key,omitempty" validate:"required_if=Type rest"`
	Table  string `yaml:"table,omitempty" validate:"required_unless=Type csv"`
	DSN    string `yaml:"dsn,omitempty" validate:"required_if=Type postgres"`
}

// Result is the raw output of one source: rows keyed by column name plus the
// header order when the source has one.
type Result struct {
	Rows    []trend.RawRow
	Columns []string
}

// Strategy fetches rows for one source type.
type Strategy interface {
	Name() string
	FetchRows(ctx context.Context, src Source) (Result, error)
}

// Registry keeps a mapping from source types to their strategies.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a strategy.
func (r *Registry) Register(s Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[s.Name()] = s
}

// Resolve returns the strategy for a source type.
func (r *Registry) Resolve(sourceType string) (Strategy, error) {
	if s, ok := r.strategies[sourceType]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSourceType, sourceType)
}

// Fetcher retrieves rows from sources through a Registry.
type Fetcher struct {
	registry *Registry
}

// NewFetcher creates a Fetcher with the built-in strategies. timeout bounds
// each HTTP request and each database session.
func NewFetcher(timeout time.Duration) *Fetcher {
	h := newHTTPGetter(timeout)
	r := NewRegistry()
	r.Register(&CSVStrategy{http: h})
	r.Register(&RESTStrategy{http: h})
	r.Register(&PostgresStrategy{Timeout: timeout})
	return NewFetcherWithRegistry(r)
}

// NewFetcherWithRegistry creates a Fetcher over a caller-built registry.
func NewFetcherWithRegistry(r *Registry) *Fetcher {
	return &Fetcher{registry: r}
}

// Fetch retrieves raw rows from src. Does NOT normalize them.
//
// The function respects context cancellation and will return early
// if the context is cancelled.
func (f *Fetcher) Fetch(ctx context.Context, src Source) (Result, error) {
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	strategy, err := f.registry.Resolve(src.Type)
	if err != nil {
		return Result{}, &Error{Source: src.Name, URL: src.URL, Message: "no strategy for source type", Cause: err}
	}
	return strategy.FetchRows(ctx, src)
}
