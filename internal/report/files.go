package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"jira-digest/internal/digest"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
)

// ActorListFile is the name of the file written by WriteActorList.
const ActorListFile = "actors.txt"

// WriteActorList writes one "name | id" line per active person so that the
// USER_INCLUDE and USER_EXCLUDE lists can be built from real identities.
// Nothing is written when nobody was active.
func WriteActorList(dir string, r *digest.Report) (string, error) {
	if len(r.Users) == 0 {
		return "", nil
	}
	var lines []string
	for _, u := range r.Users {
		name := u.Actor.Name
		if name == "" {
			name = "Unknown"
		}
		lines = append(lines, fmt.Sprintf("%s | %s", name, u.Actor.ID))
	}
	return writeFile(dir, ActorListFile, strings.Join(lines, "\n"))
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// SafeName lowercases s and collapses everything but letters and digits into
// single dashes.
func SafeName(s string) string {
	safe := strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if safe == "" {
		return "unknown"
	}
	return safe
}

// Open shows a written report in the default browser.
func Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	log.Info().Str("path", abs).Msg("Opening report in browser")
	return browser.OpenFile(abs)
}

func writeFile(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}
