// Package recommender ranks actions for a free-text query. The external
// model is a soft dependency: every failure path degrades to the keyword
// heuristic so the browse flow never surfaces a recommendation error.
package recommender

import (
	"context"
	"sort"
	"strings"

	"github.com/weiting/stellact/internal/app/models"
)

// Digest is the slice of an action the ranker sees
type Digest struct {
	ID       string                    `json:"id"`
	Name     string                    `json:"name"`
	Category string                    `json:"category"`
	Summary  string                    `json:"summary"`
	Tags     []models.ParticipationTag `json:"tags"`
}

// Query carries the free-text query plus the caller's interest history
type Query struct {
	Text          string
	UserID        string
	InterestedIDs []string
	Actions       []Digest
}

// Recommender ranks action ids for a query. Source labels where the ranking
// came from (model name or a fallback reason); implementations never return
// an error to the caller.
type Recommender interface {
	Rank(ctx context.Context, q Query) (ids []string, source string)
}

// Heuristic is the default Recommender: keyword scoring over name, summary,
// category and tag labels. It is also the fallback behind the remote client.
type Heuristic struct{}

// Rank scores each digest against the lowercased query: 2 points when the
// concatenated text contains it, plus half a point per tag label match.
func (Heuristic) Rank(_ context.Context, q Query) ([]string, string) {
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	if needle == "" {
		return []string{}, "heuristic"
	}

	type scored struct {
		id    string
		score float64
	}
	results := make([]scored, 0, len(q.Actions))
	for _, a := range q.Actions {
		var sb strings.Builder
		sb.WriteString(a.Name)
		sb.WriteByte(' ')
		sb.WriteString(a.Summary)
		sb.WriteByte(' ')
		sb.WriteString(a.Category)
		for _, t := range a.Tags {
			sb.WriteByte(' ')
			sb.WriteString(t.Title)
			sb.WriteByte(' ')
			sb.WriteString(t.Label)
			sb.WriteByte(' ')
			sb.WriteString(t.Description)
		}

		var score float64
		if strings.Contains(strings.ToLower(sb.String()), needle) {
			score += 2
		}
		for _, t := range a.Tags {
			if strings.Contains(strings.ToLower(t.Label), needle) {
				score += 0.5
			}
		}
		results = append(results, scored{id: a.ID, score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	ids := make([]string, 0, 5)
	for _, r := range results {
		if len(ids) == 5 {
			break
		}
		ids = append(ids, r.id)
	}
	return ids, "heuristic"
}
