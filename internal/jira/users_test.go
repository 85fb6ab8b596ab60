package jira

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRoleClient struct {
	Client
	roles    map[string]string
	roleErr  error
	byID     map[string]*ProjectRoleDTO
	emails   map[string]string
	userErrs map[string]error
}

func (m *mockRoleClient) GetProjectRoles(ctx context.Context, projectKey string) (map[string]string, error) {
	return m.roles, m.roleErr
}

func (m *mockRoleClient) GetProjectRole(ctx context.Context, projectKey string, roleID string) (*ProjectRoleDTO, error) {
	role, ok := m.byID[roleID]
	if !ok {
		return nil, errors.New("role not found")
	}
	return role, nil
}

func (m *mockRoleClient) GetUser(ctx context.Context, accountID string) (*UserDTO, error) {
	if err := m.userErrs[accountID]; err != nil {
		return nil, err
	}
	return &UserDTO{AccountID: accountID, EmailAddress: m.emails[accountID]}, nil
}

func TestListProjectUsers(t *testing.T) {
	client := &mockRoleClient{
		roles: map[string]string{
			"Developers":     "https://jira/rest/api/2/project/ABC/role/10001",
			"Administrators": "https://jira/rest/api/2/project/ABC/role/10002",
			"Broken":         "https://jira/rest/api/2/project/ABC/role/99999",
		},
		byID: map[string]*ProjectRoleDTO{
			"10001": {Actors: []RoleActorDTO{
				{DisplayName: "Alice", ActorUser: &UserDTO{AccountID: "a1"}},
				{DisplayName: "jira-developers", ActorGroup: &struct {
					Name string `json:"name"`
				}{Name: "jira-developers"}},
				{DisplayName: "Bob", ActorUser: &UserDTO{AccountID: "b1", EmailAddress: "bob@example.com"}},
			}},
			"10002": {Actors: []RoleActorDTO{
				{DisplayName: "Alice", ActorUser: &UserDTO{AccountID: "a1"}},
				{DisplayName: "Carol", ActorUser: &UserDTO{AccountID: "c1"}},
			}},
		},
		emails:   map[string]string{"a1": "alice@example.com"},
		userErrs: map[string]error{"c1": errors.New("forbidden")},
	}

	users := ListProjectUsers(context.Background(), client, "ABC", 2)
	require.Len(t, users, 3)

	// Administrators sorts before Developers.
	assert.Equal(t, ProjectUser{ID: "a1", Name: "Alice", Email: "alice@example.com"}, users[0])
	assert.Equal(t, ProjectUser{ID: "c1", Name: "Carol"}, users[1])
	assert.Equal(t, ProjectUser{ID: "b1", Name: "Bob", Email: "bob@example.com"}, users[2])
}

func TestListProjectUsers_RolesUnavailable(t *testing.T) {
	client := &mockRoleClient{roleErr: errors.New("boom")}
	assert.Empty(t, ListProjectUsers(context.Background(), client, "ABC", 2))
}
