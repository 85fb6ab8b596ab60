package digest

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"jira-digest/internal/activity"
)

// Matches reports whether token names the actor, by display name or id,
// ignoring case.
func Matches(actor activity.ActorRef, token string) bool {
	return strings.EqualFold(actor.Name, token) || strings.EqualFold(actor.ID, token)
}

// FilterGroups keeps the groups that match one of include (when include is
// not empty) and none of exclude. Order is preserved.
func FilterGroups(groups []activity.ActorGroup, include, exclude []string) []activity.ActorGroup {
	if len(include) == 0 && len(exclude) == 0 {
		return groups
	}
	var kept []activity.ActorGroup
	for _, g := range groups {
		if len(include) > 0 && !matchesAny(g.Actor, include) {
			continue
		}
		if matchesAny(g.Actor, exclude) {
			continue
		}
		kept = append(kept, g)
	}
	return kept
}

func matchesAny(actor activity.ActorRef, tokens []string) bool {
	for _, t := range tokens {
		if Matches(actor, t) {
			return true
		}
	}
	return false
}

// LoadRoster reads the people expected to be active, one name or id per
// line. Blank lines and lines starting with # are ignored. A missing file is
// an empty roster.
func LoadRoster(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	return names, nil
}
