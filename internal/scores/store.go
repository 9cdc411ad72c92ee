// Package scores persists the high-score list and user preferences as a
// small JSON document. Reads are lenient: a missing or corrupt store
// degrades to defaults and is reported, never fatal to the session.
package scores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/santiagobarrazas/CheeseShop/logging"
	"github.com/santiagobarrazas/CheeseShop/logging/lifecycle"
)

const (
	// MaxEntries caps the stored list length.
	MaxEntries = 5
	// MaxNameLength caps a saved player name.
	MaxNameLength = 10
)

var ErrEmptyName = errors.New("empty name")

// Entry is one stored high score.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Preferences holds persisted user settings.
type Preferences struct {
	SoundEnabled bool    `json:"soundEnabled"`
	Volume       float64 `json:"volume"`
}

// DefaultPreferences returns the settings used when nothing is stored.
func DefaultPreferences() Preferences {
	return Preferences{SoundEnabled: true, Volume: 0.7}
}

type document struct {
	HighScores  []Entry     `json:"highScores"`
	Preferences Preferences `json:"preferences"`
}

// Store is a file-backed score and preference list.
type Store struct {
	mu      sync.Mutex
	path    string
	pub     logging.Publisher
	entries []Entry
	prefs   Preferences
}

// Open loads the store at path. The document is parsed field by field with
// gjson, so a partially corrupt file salvages whatever is readable instead
// of failing the whole load.
func Open(path string, pub logging.Publisher) *Store {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	store := &Store{
		path:  path,
		pub:   pub,
		prefs: DefaultPreferences(),
	}
	store.load()
	return store
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.degrade(fmt.Sprintf("read: %v", err))
		}
		return
	}
	if !gjson.ValidBytes(data) {
		s.degrade("invalid json")
		return
	}
	raw := string(data)

	entries := make([]Entry, 0, MaxEntries)
	gjson.Get(raw, "highScores").ForEach(func(_, value gjson.Result) bool {
		name := value.Get("name").String()
		score := value.Get("score")
		if name == "" || !score.Exists() {
			return true
		}
		entries = append(entries, Entry{Name: truncateName(name), Score: int(score.Int())})
		return true
	})
	sortEntries(entries)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	s.entries = entries

	if prefs := gjson.Get(raw, "preferences"); prefs.Exists() {
		if sound := prefs.Get("soundEnabled"); sound.Exists() {
			s.prefs.SoundEnabled = sound.Bool()
		}
		if volume := prefs.Get("volume"); volume.Exists() {
			v := volume.Float()
			if v >= 0 && v <= 1 {
				s.prefs.Volume = v
			}
		}
	}
}

func (s *Store) degrade(reason string) {
	lifecycle.StoreDegraded(context.Background(), s.pub, lifecycle.StoreDegradedPayload{
		Path:   s.path,
		Reason: reason,
	})
}

// List returns the stored entries, best first.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]Entry, len(s.entries))
	copy(copied, s.entries)
	return copied
}

// Lowest reports the weakest stored score and whether the list is full. A
// non-full list qualifies any score.
func (s *Store) Lowest() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) < MaxEntries {
		return 0, false
	}
	return s.entries[len(s.entries)-1].Score, true
}

// Qualifies reports whether a finished run earns a spot on the list.
func (s *Store) Qualifies(score int) bool {
	lowest, full := s.Lowest()
	return !full || score > lowest
}

// Record inserts an entry, re-sorts, caps the list, and persists it. The
// name is trimmed and truncated to MaxNameLength.
func (s *Store) Record(name string, score int) ([]Entry, error) {
	name = truncateName(strings.TrimSpace(name))
	if name == "" {
		return s.List(), ErrEmptyName
	}

	s.mu.Lock()
	s.entries = append(s.entries, Entry{Name: name, Score: score})
	sortEntries(s.entries)
	if len(s.entries) > MaxEntries {
		s.entries = s.entries[:MaxEntries]
	}
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	prefs := s.prefs
	s.mu.Unlock()

	if err := s.save(entries, prefs); err != nil {
		s.degrade(fmt.Sprintf("write: %v", err))
		return entries, err
	}
	return entries, nil
}

// Preferences returns the stored settings.
func (s *Store) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// SetPreferences persists new settings alongside the score list.
func (s *Store) SetPreferences(prefs Preferences) error {
	if prefs.Volume < 0 {
		prefs.Volume = 0
	}
	if prefs.Volume > 1 {
		prefs.Volume = 1
	}

	s.mu.Lock()
	s.prefs = prefs
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()

	if err := s.save(entries, prefs); err != nil {
		s.degrade(fmt.Sprintf("write: %v", err))
		return err
	}
	return nil
}

func (s *Store) save(entries []Entry, prefs Preferences) error {
	doc := document{HighScores: entries, Preferences: prefs}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
}

func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) > MaxNameLength {
		return string(runes[:MaxNameLength])
	}
	return name
}
