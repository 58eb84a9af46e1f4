package models

// CategoryRule is one category with the keywords that select it.
type CategoryRule struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Rules is an immutable, ordered view of every category rule. Order matters:
// when a description matches keywords of several categories, the category
// that comes last wins.
type Rules []CategoryRule

// Names returns the category names in order.
func (r Rules) Names() []string {
	names := make([]string, 0, len(r))
	for _, rule := range r {
		names = append(names, rule.Name)
	}
	return names
}

// Find returns the rule for a category name.
func (r Rules) Find(name string) (CategoryRule, bool) {
	for _, rule := range r {
		if rule.Name == name {
			return rule, true
		}
	}
	return CategoryRule{}, false
}
