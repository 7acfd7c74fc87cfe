// Package jsonfile stores group documents as indented JSON files, one file
// per group, in a single directory.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mmynk/splitpool/internal/models"
	"github.com/mmynk/splitpool/internal/storage"
)

const ext = ".json"

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on a directory of JSON files.
type Store struct {
	dir string
}

// New creates the directory if needed and returns a store rooted at it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(groupID string) (string, error) {
	if groupID == "" || strings.ContainsAny(groupID, `/\`) || groupID == "." || groupID == ".." {
		return "", fmt.Errorf("invalid group id %q", groupID)
	}
	return filepath.Join(s.dir, groupID+ext), nil
}

// SaveGroup writes the document, replacing any previous version atomically.
func (s *Store) SaveGroup(ctx context.Context, group *models.Group) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(group.ID)
	if err != nil {
		return err
	}
	return WriteFile(path, group)
}

// GetGroup reads the document for groupID.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, groupID)
	}
	group, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	// The file name is the group's identity. Documents written without an
	// id take it from there so the next save lands in the same file.
	switch group.ID {
	case groupID:
	case "":
		group.ID = groupID
	default:
		return nil, fmt.Errorf("%s holds group %q, not %q", path, group.ID, groupID)
	}
	return group, nil
}

// ListGroups reads every document in the directory, oldest first. IDs are
// taken from the file names.
func (s *Store) ListGroups(ctx context.Context) ([]*models.GroupSummary, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+ext))
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	summaries := make([]*models.GroupSummary, 0, len(matches))
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		group, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		summary := group.Summary()
		summary.ID = strings.TrimSuffix(filepath.Base(path), ext)
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if !summaries[i].Stamp.Equal(summaries[j].Stamp) {
			return summaries[i].Stamp.Before(summaries[j].Stamp)
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

// DeleteGroup removes the group's file.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(groupID)
	if err != nil {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, groupID)
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, groupID)
		}
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }

// ReadFile loads a single group document. A missing file yields storage.ErrNotFound.
func ReadFile(path string) (*models.Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var group models.Group
	if err := json.Unmarshal(data, &group); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &group, nil
}

// WriteFile writes a group document as indented JSON through a temporary
// file in the same directory, then renames it into place.
func WriteFile(path string, group *models.Group) error {
	data, err := json.MarshalIndent(group, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode group: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
