// Package store provides persistent, scoped variable storage for templates.
//
// Variables live in scopes (for example "prod" and "staging"). Resolver
// turns a Store into a strtmpl.Resolver that searches scopes in order.
package store

import (
	"context"
	"errors"
	"time"
)

// DefaultScope is the scope used when none is given.
const DefaultScope = "default"

// Store persists named variables grouped by scope.
// Implementations must be safe for concurrent use.
type Store interface {
	// Set stores a variable, overwriting any previous value.
	Set(ctx context.Context, scope, name, value string) error

	// Get retrieves a value.
	// Returns ErrNotFound if the variable doesn't exist.
	Get(ctx context.Context, scope, name string) (string, error)

	// List returns all variables of a scope ordered by name.
	// Returns empty slice (not error) if the scope is empty.
	List(ctx context.Context, scope string) ([]Variable, error)

	// Delete removes a variable.
	// Returns nil if it doesn't exist.
	Delete(ctx context.Context, scope, name string) error

	// DeleteScope removes every variable of a scope.
	DeleteScope(ctx context.Context, scope string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Variable is a stored variable with its metadata.
type Variable struct {
	// ID is assigned on first insert and kept across updates.
	ID        string
	Scope     string
	Name      string
	Value     string
	UpdatedAt time.Time
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a variable doesn't exist.
	ErrNotFound = errors.New("variable not found in store")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("variable store closed")
)
