// Package astroio persists serialized world records as JSON files and
// enforces the optimistic-concurrency contract: a save is rejected when
// the on-disk record has advanced since it was loaded. The engine only
// supplies its Updated stamp; the staleness check lives here.
package astroio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Davarice/Astronautica/model"
)

// ErrStale is returned by Store.Save when the file changed under us.
var ErrStale = errors.New("world on disk has advanced since load")

// Load reads a world record from path.
func Load(path string) (*model.WorldRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("astroio: load %s: %w", path, err)
	}
	var rec model.WorldRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("astroio: load %s: %w", path, err)
	}
	return &rec, nil
}

// Save writes a world record to path, unconditionally.
func Save(path string, rec *model.WorldRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("astroio: save %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("astroio: save %s: %w", path, err)
	}
	return nil
}

// Store tracks the Updated stamp seen at load time so that concurrent
// writers to the same file are detected on save.
type Store struct {
	path   string
	loaded time.Time
}

// Open loads the record at path and remembers its stamp. Opening a
// path that does not exist yet returns an empty store and a nil record.
func Open(path string) (*Store, *model.WorldRecord, error) {
	rec, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Store{path: path}, nil, nil
		}
		return nil, nil, err
	}
	return &Store{path: path, loaded: rec.Updated}, rec, nil
}

// Save writes the record unless the on-disk stamp has advanced past the
// one seen at load, in which case it fails with ErrStale and leaves the
// file untouched.
func (s *Store) Save(rec *model.WorldRecord) error {
	current, err := Load(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if current != nil && current.Updated.After(s.loaded) {
		return fmt.Errorf("astroio: save %s: %w", s.path, ErrStale)
	}
	if err := Save(s.path, rec); err != nil {
		return err
	}
	s.loaded = rec.Updated
	return nil
}
