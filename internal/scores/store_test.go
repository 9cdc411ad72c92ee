package scores

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/santiagobarrazas/CheeseShop/logging"
	"github.com/santiagobarrazas/CheeseShop/logging/lifecycle"
	"github.com/santiagobarrazas/CheeseShop/logging/sinks"
)

func testStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "highscores.json")
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	store := Open(testStorePath(t), nil)
	if got := store.List(); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
	if store.Preferences() != DefaultPreferences() {
		t.Fatalf("expected default preferences, got %+v", store.Preferences())
	}
}

func TestOpenCorruptFileDegradesAndReports(t *testing.T) {
	path := testStorePath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	sink := sinks.NewMemorySink()
	router, err := logging.NewRouter(logging.SystemClock{}, logging.DefaultConfig(), []logging.NamedSink{
		{Name: "memory", Sink: sink},
	})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	store := Open(path, router)
	if got := store.List(); len(got) != 0 {
		t.Fatalf("corrupt store must degrade to empty, got %v", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("close router: %v", err)
	}
	if got := sink.EventsOfType(lifecycle.EventStoreDegraded); len(got) != 1 {
		t.Fatalf("expected one degradation event, got %d", len(got))
	}
}

func TestOpenSalvagesPartialDocument(t *testing.T) {
	path := testStorePath(t)
	// Valid JSON with one malformed entry and a bogus volume: the readable
	// fields survive, the rest fall back.
	doc := `{
		"highScores": [
			{"name": "Ada", "score": 120},
			{"score": 90},
			{"name": "Bob", "score": 40}
		],
		"preferences": {"soundEnabled": false, "volume": 9.5}
	}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	store := Open(path, nil)
	entries := store.List()
	if len(entries) != 2 {
		t.Fatalf("expected 2 salvaged entries, got %v", entries)
	}
	if entries[0].Name != "Ada" || entries[1].Name != "Bob" {
		t.Fatalf("entries out of order: %v", entries)
	}
	prefs := store.Preferences()
	if prefs.SoundEnabled {
		t.Fatalf("soundEnabled not salvaged")
	}
	if prefs.Volume != DefaultPreferences().Volume {
		t.Fatalf("out-of-range volume must keep the default, got %v", prefs.Volume)
	}
}

func TestRecordSortsTruncatesAndCaps(t *testing.T) {
	store := Open(testStorePath(t), nil)

	if _, err := store.Record("   ", 10); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected empty-name rejection, got %v", err)
	}

	scoresIn := []int{40, 120, 80, 60, 100, 20}
	for _, score := range scoresIn {
		if _, err := store.Record("Player", score); err != nil {
			t.Fatalf("record %d: %v", score, err)
		}
	}
	entries := store.List()
	if len(entries) != MaxEntries {
		t.Fatalf("expected cap at %d, got %d", MaxEntries, len(entries))
	}
	want := []int{120, 100, 80, 60, 40}
	for i, entry := range entries {
		if entry.Score != want[i] {
			t.Fatalf("expected scores %v, got %v", want, entries)
		}
	}

	entries, err := store.Record("a very long cheesemonger name", 200)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := entries[0].Name; len([]rune(got)) != MaxNameLength {
		t.Fatalf("name not truncated: %q", got)
	}
}

func TestQualifiesAndLowest(t *testing.T) {
	store := Open(testStorePath(t), nil)

	if _, full := store.Lowest(); full {
		t.Fatalf("empty list reported as full")
	}
	if !store.Qualifies(0) {
		t.Fatalf("any score qualifies against a non-full list")
	}

	for i := 0; i < MaxEntries; i++ {
		if _, err := store.Record("Player", (i+1)*10); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	lowest, full := store.Lowest()
	if !full || lowest != 10 {
		t.Fatalf("expected full list with lowest 10, got %d/%v", lowest, full)
	}
	if store.Qualifies(10) {
		t.Fatalf("equal score must not displace an entry")
	}
	if !store.Qualifies(11) {
		t.Fatalf("higher score must qualify")
	}
}

func TestStoreRoundTrips(t *testing.T) {
	path := testStorePath(t)

	store := Open(path, nil)
	if _, err := store.Record("Ada", 120); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.SetPreferences(Preferences{SoundEnabled: false, Volume: 1.7}); err != nil {
		t.Fatalf("set preferences: %v", err)
	}

	reopened := Open(path, nil)
	entries := reopened.List()
	if len(entries) != 1 || entries[0].Name != "Ada" || entries[0].Score != 120 {
		t.Fatalf("entries did not round-trip: %v", entries)
	}
	prefs := reopened.Preferences()
	if prefs.SoundEnabled || prefs.Volume != 1.0 {
		t.Fatalf("preferences did not round-trip with volume clamp: %+v", prefs)
	}

	// The on-disk document stays plain JSON.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("stored document is not valid JSON: %v", err)
	}
}
