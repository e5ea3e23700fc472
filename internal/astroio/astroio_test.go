package astroio

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Davarice/Astronautica/model"
)

func worldAt(updated time.Time, objects int) *model.WorldRecord {
	rec := &model.WorldRecord{Updated: updated}
	for i := 0; i < objects; i++ {
		rec.Objects = append(rec.Objects, &model.ObjectRecord{
			Type:   "Ship",
			Radius: 1,
			Mass:   1000,
			Coords: model.CoordsRecord{Domain: "sol"},
		})
	}
	return rec
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.json")
	stamp := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	if err := Save(path, worldAt(stamp, 2)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !rec.Updated.Equal(stamp) {
		t.Fatalf("Updated = %v, want %v", rec.Updated, stamp)
	}
	if len(rec.Objects) != 2 {
		t.Fatalf("objects = %d, want 2", len(rec.Objects))
	}
	if rec.Objects[0].Coords.Domain != "sol" {
		t.Fatalf("domain = %q, want sol", rec.Objects[0].Coords.Domain)
	}
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	store, rec, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record for a missing file, got %+v", rec)
	}

	// A fresh store saves into the empty slot without complaint.
	if err := store.Save(worldAt(time.Now().UTC(), 1)); err != nil {
		t.Fatalf("Save into empty slot: %v", err)
	}
}

func TestStoreSaveDetectsConcurrentWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.json")
	t0 := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	if err := Save(path, worldAt(t0, 1)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	store, _, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Another writer advances the file behind our back.
	if err := Save(path, worldAt(t0.Add(time.Minute), 1)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Save(worldAt(t0.Add(time.Second), 1)); !errors.Is(err, ErrStale) {
		t.Fatalf("stale save error = %v, want ErrStale", err)
	}
}

func TestStoreSaveAdvancesStamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.json")
	t0 := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	if err := Save(path, worldAt(t0, 1)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	store, _, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := store.Save(worldAt(t0.Add(time.Minute), 1)); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	// The store tracks its own writes, so a second save still succeeds.
	if err := store.Save(worldAt(t0.Add(2*time.Minute), 1)); err != nil {
		t.Fatalf("second Save: %v", err)
	}
}
