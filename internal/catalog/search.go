package catalog

import (
	"strings"

	"github.com/peterkuimelis/deckbuilder/internal/card"
)

// Filter selects cards by case-insensitive substrings of their name and
// description. Empty fields match everything.
type Filter struct {
	Name string
	Text string
}

// Matches reports whether c passes the filter.
func (f Filter) Matches(c *card.Card) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Text != "" && !strings.Contains(strings.ToLower(c.Description), strings.ToLower(f.Text)) {
		return false
	}
	return true
}

// Search returns up to limit matching card ids in id order. A limit of zero
// or less returns every match.
func (d *Data) Search(f Filter, limit int) []card.ID {
	var ids []card.ID
	for id, c := range d.All() {
		if !f.Matches(c) {
			continue
		}
		ids = append(ids, id)
		if limit > 0 && len(ids) == limit {
			break
		}
	}
	return ids
}
