package jira

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ProjectUser is a person holding at least one role in a project.
type ProjectUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ListProjectUsers collects the users of every project role, skipping group
// actors, and back-fills missing email addresses. Role lookups that fail are
// logged and skipped; a failure to list the roles yields an empty result.
func ListProjectUsers(ctx context.Context, client Client, projectKey string, concurrency int) []ProjectUser {
	roles, err := client.GetProjectRoles(ctx, projectKey)
	if err != nil {
		log.Warn().Err(err).Str("project", projectKey).Msg("Failed to fetch project roles")
		return nil
	}

	// Deterministic role order so the first-seen name wins consistently.
	names := make([]string, 0, len(roles))
	for name := range roles {
		names = append(names, name)
	}
	sort.Strings(names)

	users := make(map[string]*ProjectUser)
	var order []string
	for _, name := range names {
		roleID := path.Base(strings.TrimRight(roles[name], "/"))
		role, err := client.GetProjectRole(ctx, projectKey, roleID)
		if err != nil {
			log.Warn().Err(err).Str("role", name).Msg("Failed to read project role")
			continue
		}
		for _, actor := range role.Actors {
			if actor.ActorGroup != nil {
				continue
			}
			id, display, email := "", actor.DisplayName, ""
			if actor.ActorUser != nil {
				id = actor.ActorUser.AccountID
				if display == "" {
					display = actor.ActorUser.DisplayName
				}
				email = actor.ActorUser.EmailAddress
				if id == "" {
					id = actor.ActorUser.DisplayName
				}
			}
			if id == "" {
				id = actor.DisplayName
			}
			if id == "" || display == "" {
				continue
			}
			if _, ok := users[id]; !ok {
				order = append(order, id)
			}
			users[id] = &ProjectUser{ID: id, Name: display, Email: email}
		}
	}

	result := make([]ProjectUser, len(order))
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, id := range order {
		result[i] = *users[id]
		if result[i].Email != "" {
			continue
		}
		g.Go(func() error {
			u, err := client.GetUser(gctx, id)
			if err != nil {
				log.Debug().Err(err).Str("accountId", id).Msg("Failed to fetch user email")
				return nil
			}
			result[i].Email = u.EmailAddress
			return nil
		})
	}
	_ = g.Wait()

	return result
}
