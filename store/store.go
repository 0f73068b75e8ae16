// Package store holds the repository functions for vulnerable system records. It is the only
// layer that talks to a backend; everything above it works with model.VulnerableSystem.
package store

import (
	"context"

	"github.com/quantumx/qvr-backend/model"
)

// ListFilter narrows a List call
type ListFilter struct {
	// PublishedOnly keeps documents whose backend label is Published.
	PublishedOnly bool
}

// Backend is implemented once per document database integration. Implementations normalize
// their own document shape and return ErrNotFound (wrapped) for missing ids.
type Backend interface {
	Name() string
	List(ctx context.Context, filter ListFilter) ([]model.VulnerableSystem, error)
	Get(ctx context.Context, id string) (model.VulnerableSystem, error)
	Create(ctx context.Context, id string, fields model.Fields, status model.Status) error
	Update(ctx context.Context, id string, patch model.Patch) error
	Delete(ctx context.Context, id string) error
}

// Result is returned by every repository function instead of a bare error so callers handle
// expected failures without inspecting error chains.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`

	// Err keeps the typed cause for status mapping.
	Err error `json:"-"`
	// Demo is set when Data came from the built-in dataset.
	Demo bool `json:"-"`
}

// Kind reports the failure kind, KindUnknown on success.
func (r Result[T]) Kind() Kind {
	if r.Success {
		return KindUnknown
	}
	return KindOf(r.Err)
}

func ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func fail[T any](err error) Result[T] {
	return Result[T]{Success: false, Error: Message(err), Err: err}
}
