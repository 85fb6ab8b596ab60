package activity

import (
	"slices"
	"strings"
)

// SortChronologically orders actions by At ascending. The sort is stable:
// actions with equal timestamps keep their extraction order.
func SortChronologically(actions []Action) {
	slices.SortStableFunc(actions, func(a, b Action) int {
		return a.At.Compare(b.At)
	})
}

// Stats are the per-actor counters of a day.
type Stats struct {
	Created int `json:"created"`
	// StatusChangeIssueCount counts distinct issues, not transitions.
	StatusChangeIssueCount int `json:"statusChangeIssueCount"`
	Comments               int `json:"comments"`
	Worklogs               int `json:"worklogs"`
	WorklogSeconds         int `json:"worklogSeconds"`
}

// ActorGroup is one person's actions in merge order with their counters.
type ActorGroup struct {
	Actor   ActorRef `json:"actor"`
	Actions []Action `json:"actions"`
	Stats   Stats    `json:"stats"`
}

// GroupActionsByActor buckets actions by actor identity (ActorRef.Key).
// Buckets are ordered by action count descending; ties keep the order in
// which actors were first seen.
func GroupActionsByActor(actions []Action) []ActorGroup {
	var groups []*ActorGroup
	byKey := make(map[string]*ActorGroup)
	statusIssues := make(map[*ActorGroup]map[string]struct{})

	for _, action := range actions {
		key := action.Actor.Key()
		g, ok := byKey[key]
		if !ok {
			g = &ActorGroup{Actor: action.Actor}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.Actions = append(g.Actions, action)

		switch d := action.Details.(type) {
		case CreatedDetails:
			g.Stats.Created++
		case StatusChangeDetails:
			if action.Issue.Key == "" {
				continue
			}
			if statusIssues[g] == nil {
				statusIssues[g] = make(map[string]struct{})
			}
			statusIssues[g][action.Issue.Key] = struct{}{}
		case CommentDetails:
			g.Stats.Comments++
		case WorklogDetails:
			g.Stats.Worklogs++
			g.Stats.WorklogSeconds += d.TimeSpentSeconds
		}
	}

	result := make([]ActorGroup, len(groups))
	for i, g := range groups {
		g.Stats.StatusChangeIssueCount = len(statusIssues[g])
		result[i] = *g
	}
	slices.SortStableFunc(result, func(a, b ActorGroup) int {
		return len(b.Actions) - len(a.Actions)
	})
	return result
}

// IssueKeys lists the issues the actor touched, in first-seen order.
func (g ActorGroup) IssueKeys() []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, a := range g.Actions {
		if _, ok := seen[a.Issue.Key]; ok {
			continue
		}
		seen[a.Issue.Key] = struct{}{}
		keys = append(keys, a.Issue.Key)
	}
	return keys
}

// StatusChain is the ordered sequence of distinct consecutive statuses an
// issue went through by one actor's hand.
type StatusChain []string

// String renders the chain as "A -> B -> C".
func (c StatusChain) String() string {
	return strings.Join(c, " -> ")
}

// Steps is the number of transitions in the chain.
func (c StatusChain) Steps() int {
	if len(c) == 0 {
		return 0
	}
	return len(c) - 1
}

// StatusChain builds the chain of issueKey from the actor's status changes
// sorted by time. It starts at the first known "from" status and appends each
// "to" status unless it repeats the previous node.
func (g ActorGroup) StatusChain(issueKey string) StatusChain {
	var transitions []Action
	for _, a := range g.Actions {
		if a.Issue.Key == issueKey && a.Kind == KindStatusChange {
			transitions = append(transitions, a)
		}
	}
	SortChronologically(transitions)

	var chain StatusChain
	for _, t := range transitions {
		d, ok := t.Details.(StatusChangeDetails)
		if !ok {
			continue
		}
		if len(chain) == 0 && d.From != "" {
			chain = append(chain, d.From)
		}
		if d.To != "" && (len(chain) == 0 || chain[len(chain)-1] != d.To) {
			chain = append(chain, d.To)
		}
	}
	return chain
}
