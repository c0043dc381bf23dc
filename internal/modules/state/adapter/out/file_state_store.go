package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"focuscraft/internal/modules/state/domain"
	stateout "focuscraft/internal/modules/state/port/out"
)

// FileStateStore keeps the whole AppState as one JSON blob. Writes go to
// a temp file first and are moved into place with a rename, so a crash
// mid-write can never leave a torn blob behind.
type FileStateStore struct {
	path string
}

func NewFileStateStore(path string) stateout.StateStore {
	return &FileStateStore{path: path}
}

func (s *FileStateStore) Load(_ context.Context) (domain.AppState, bool, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.AppState{}, false, nil
		}
		return domain.AppState{}, false, fmt.Errorf("read state blob: %w", err)
	}
	state, err := domain.Decode(raw)
	if err != nil {
		return domain.AppState{}, false, err
	}
	return state, true, nil
}

func (s *FileStateStore) Save(_ context.Context, state domain.AppState) error {
	payload, err := domain.Encode(state)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write state blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace state blob: %w", err)
	}
	return nil
}
