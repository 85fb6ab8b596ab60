package activity

import "jira-digest/internal/jira"

// Each action kind credits a different person. The candidate lists below are
// evaluated first-match-wins by ResolveActor.

// CreatedActorCandidates: creator, then reporter.
func CreatedActorCandidates(issue *IssueDetail) []*jira.UserDTO {
	return []*jira.UserDTO{issue.Fields.Creator, issue.Fields.Reporter}
}

// StatusChangeActorCandidates: changelog author, then current assignee.
func StatusChangeActorCandidates(issue *IssueDetail, history *jira.HistoryDTO) []*jira.UserDTO {
	return []*jira.UserDTO{history.Author, issue.Fields.Assignee}
}

// CommentActorCandidates: comment author, then current assignee.
func CommentActorCandidates(issue *IssueDetail, comment *jira.CommentDTO) []*jira.UserDTO {
	return []*jira.UserDTO{comment.Author, issue.Fields.Assignee}
}

// WorklogActorCandidates: worklog author, then its last editor, then current assignee.
func WorklogActorCandidates(issue *IssueDetail, worklog *jira.WorklogDTO) []*jira.UserDTO {
	return []*jira.UserDTO{worklog.Author, worklog.UpdateAuthor, issue.Fields.Assignee}
}

// ResolveActor returns the first usable user of candidates. The id prefers
// stable identifiers (account id, key, login) and falls back to the email;
// when nothing identifies the user the id is "unknown".
func ResolveActor(candidates ...*jira.UserDTO) ActorRef {
	for _, u := range candidates {
		if u == nil {
			continue
		}
		id := firstNonEmpty(u.AccountID, u.Key, u.Name, u.EmailAddress)
		name := firstNonEmpty(u.DisplayName, u.Name, u.EmailAddress)
		if id == "" && name == "" {
			continue
		}
		return ActorRef{
			ID:    firstNonEmpty(id, UnknownActorID),
			Name:  firstNonEmpty(name, UnknownActorName),
			Email: u.EmailAddress,
		}
	}
	return ActorRef{ID: UnknownActorID, Name: UnknownActorName}
}
