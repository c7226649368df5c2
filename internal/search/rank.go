package search

import (
	"sort"
	"strings"

	"github.com/utafrali/RestaurantGo/internal/domain"
)

// descriptionWeight discounts hits that only occur in the description.
const descriptionWeight = 0.5

// Result is a menu item with its relevance score.
type Result struct {
	Item  domain.MenuItem `json:"item"`
	Score float64         `json:"score"`
}

// RankMenu keeps the items whose name, description or category matches query
// and orders them by score, then by name. A blank query returns every item in
// menu order with score 0.
func RankMenu(items []domain.MenuItem, query string) []Result {
	if strings.TrimSpace(query) == "" {
		out := make([]Result, len(items))
		for i, it := range items {
			out[i] = Result{Item: it}
		}
		return out
	}

	out := make([]Result, 0, len(items))
	for _, it := range items {
		if !Match(query, it.Name) && !Match(query, it.Description) && !Match(query, it.Category) {
			continue
		}
		score := max(
			Score(query, it.Name),
			Score(query, it.Category),
			Score(query, it.Description)*descriptionWeight,
		)
		out = append(out, Result{Item: it, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Item.Name < out[j].Item.Name
	})
	return out
}
