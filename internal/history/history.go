// Package history remembers, per project, the last day each person did
// something in Jira so that quiet team members can be reported with the
// number of business days since their last action.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"jira-digest/internal/activity"

	"github.com/rs/zerolog/log"
)

// FileName is the history file written below the output directory.
const FileName = "last-actions.json"

const dateLayout = "2006-01-02"

// Entry is the last known activity of one person.
type Entry struct {
	Name           string `json:"name"`
	LastActionDate string `json:"lastActionDate"` // yyyy-mm-dd, local to the digest timezone
}

// Store is the in-memory view of the history file: project -> actor id -> entry.
type Store struct {
	// update serialises Update so concurrent runs never interleave their
	// load, record and save steps.
	update   sync.Mutex
	mu       sync.RWMutex
	path     string
	projects map[string]map[string]Entry
}

// NewStore returns an empty store bound to dir/FileName.
func NewStore(dir string) *Store {
	return &Store{
		path:     filepath.Join(dir, FileName),
		projects: make(map[string]map[string]Entry),
	}
}

// Path is the file the store loads from and saves to.
func (s *Store) Path() string { return s.path }

// Load reads the history file. A missing or corrupt file yields an empty
// history; only the corrupt case is logged.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	projects := make(map[string]map[string]Entry)
	if err := json.Unmarshal(data, &projects); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("Ignoring unreadable action history")
		return nil
	}
	if projects == nil {
		log.Warn().Str("path", s.path).Msg("Ignoring empty action history")
		projects = make(map[string]map[string]Entry)
	}

	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return nil
}

// Save writes the history atomically.
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.projects, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	tmpPath := tmp.Name()
	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Chmod(0644)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp history file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename history file: %w", err)
	}

	log.Debug().Str("path", s.path).Msg("Action history saved")
	return nil
}

// Update reloads the file, records groups as active on date and saves the
// result, holding the store for the whole sequence. When the file cannot be
// read the groups are still recorded in memory but nothing is written.
func (s *Store) Update(projectKey string, groups []activity.ActorGroup, date string) error {
	s.update.Lock()
	defer s.update.Unlock()

	loadErr := s.Load()
	s.Record(projectKey, groups, date)
	if loadErr != nil {
		return loadErr
	}
	return s.Save()
}

// Record marks every group with at least one action as active on date.
// Dates never move backwards, so re-running an older day is harmless.
func (s *Store) Record(projectKey string, groups []activity.ActorGroup, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.projects == nil {
		s.projects = make(map[string]map[string]Entry)
	}
	project := s.projects[projectKey]
	if project == nil {
		project = make(map[string]Entry)
		s.projects[projectKey] = project
	}
	for _, g := range groups {
		if len(g.Actions) == 0 {
			continue
		}
		id := actorKey(g.Actor)
		if id == "" {
			continue
		}
		if prev, ok := project[id]; ok && prev.LastActionDate >= date {
			continue
		}
		project[id] = Entry{Name: g.Actor.Name, LastActionDate: date}
	}
}

// LastActionDate looks the person up by id, then by name ignoring case. It
// returns "" when the person has never been seen.
func (s *Store) LastActionDate(projectKey, actorID, actorName string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project := s.projects[projectKey]
	if project == nil {
		return ""
	}
	if e, ok := project[actorID]; ok && e.LastActionDate != "" {
		return e.LastActionDate
	}
	if actorName == "" {
		return ""
	}
	latest := ""
	for _, e := range project {
		if strings.EqualFold(e.Name, actorName) && e.LastActionDate > latest {
			latest = e.LastActionDate
		}
	}
	return latest
}

func actorKey(a activity.ActorRef) string {
	if a.ID != "" && a.ID != activity.UnknownActorID {
		return a.ID
	}
	return a.Name
}

// BusinessDaysSince counts the weekdays after from up to and including to,
// both yyyy-mm-dd dates. It returns -1 when either date is invalid and 0
// when from is not before to.
func BusinessDaysSince(from, to string) int {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return -1
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return -1
	}

	days := 0
	for d := start.AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}
