// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitpool/internal/models"
)

// ErrNotFound is returned when a group does not exist in the store.
var ErrNotFound = errors.New("group not found")

// Store defines the interface for group ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, JSON files)
// without changing the service layer.
type Store interface {
	// SaveGroup persists the full group document, replacing any stored
	// version with the same ID. The group.ID field must be set.
	SaveGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID.
	// Returns ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns a summary of every stored group, oldest first.
	ListGroups(ctx context.Context) ([]*models.GroupSummary, error)

	// DeleteGroup removes a group and all its entries.
	// Returns ErrNotFound if the group does not exist.
	DeleteGroup(ctx context.Context, groupID string) error

	// Close releases any resources held by the store.
	Close() error
}
