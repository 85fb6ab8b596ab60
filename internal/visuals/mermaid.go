// Package visuals renders Mermaid diagrams of a day's activity.
package visuals

import (
	"fmt"
	"math"
	"strings"

	"jira-digest/internal/activity"
)

// maxChartActors keeps the bar chart readable on large teams.
const maxChartActors = 20

// ActivityChart creates a Mermaid bar chart of the action count per person,
// in the order given. Empty when there is nothing to chart.
func ActivityChart(groups []activity.ActorGroup) string {
	if len(groups) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0

	limit := min(len(groups), maxChartActors)
	for _, g := range groups[:limit] {
		count := len(g.Actions)
		labels = append(labels, quote(g.Actor.Name))
		values = append(values, fmt.Sprintf("%d", count))
		maxVal = max(maxVal, count)
	}

	var sb strings.Builder
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Actions per person\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Actions\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	return sb.String()
}

// StatusFlow creates a Mermaid flowchart of the status transitions in
// actions, each edge labelled with how often it was taken. Empty when no
// action is a status change.
func StatusFlow(actions []activity.Action) string {
	type edge struct{ from, to string }

	nodes := map[string]string{}
	var nodeOrder []string
	counts := map[edge]int{}
	var edgeOrder []edge

	node := func(status string) string {
		if id, ok := nodes[status]; ok {
			return id
		}
		id := fmt.Sprintf("s%d", len(nodes))
		nodes[status] = id
		nodeOrder = append(nodeOrder, status)
		return id
	}

	for _, a := range actions {
		d, ok := a.Details.(activity.StatusChangeDetails)
		if !ok {
			continue
		}
		e := edge{from: node(d.From), to: node(d.To)}
		if counts[e] == 0 {
			edgeOrder = append(edgeOrder, e)
		}
		counts[e]++
	}
	if len(edgeOrder) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("flowchart LR\n")
	for _, status := range nodeOrder {
		sb.WriteString(fmt.Sprintf("    %s[%s]\n", nodes[status], quote(status)))
	}
	for _, e := range edgeOrder {
		sb.WriteString(fmt.Sprintf("    %s -->|%d| %s\n", e.from, counts[e], e.to))
	}
	return sb.String()
}

// quote makes s safe as a quoted Mermaid label.
func quote(s string) string {
	if s == "" {
		s = "?"
	}
	return `"` + strings.ReplaceAll(s, `"`, "'") + `"`
}
