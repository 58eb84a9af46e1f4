package categorizer

import (
	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"
)

// Collision records a keyword listed under more than one category.
type Collision struct {
	Keyword string
	Loser   string
	Winner  string
}

// KeywordIndex maps normalized keywords to the category they select.
// It is built from one rules snapshot and never changes afterwards.
type KeywordIndex struct {
	categories map[string]string
	collisions []Collision
}

// NewKeywordIndex indexes rules in order. A keyword listed under several
// categories resolves to the last of them.
func NewKeywordIndex(rules models.Rules) *KeywordIndex {
	ix := &KeywordIndex{categories: make(map[string]string)}
	for _, rule := range rules {
		if rule.Name == models.CategoryUncategorized {
			continue
		}
		for _, kw := range rule.Keywords {
			key := models.NormalizeKeyword(kw)
			if key == "" {
				continue
			}
			if previous, ok := ix.categories[key]; ok && previous != rule.Name {
				ix.collisions = append(ix.collisions, Collision{Keyword: key, Loser: previous, Winner: rule.Name})
			}
			ix.categories[key] = rule.Name
		}
	}
	return ix
}

// Lookup returns the category whose keyword equals the normalized description.
func (ix *KeywordIndex) Lookup(description string) (string, bool) {
	category, ok := ix.categories[models.NormalizeKeyword(description)]
	return category, ok
}

// Len returns the number of distinct keywords.
func (ix *KeywordIndex) Len() int {
	return len(ix.categories)
}

// Collisions returns the keywords claimed by several categories, in the order
// they were overridden.
func (ix *KeywordIndex) Collisions() []Collision {
	return append([]Collision(nil), ix.collisions...)
}
