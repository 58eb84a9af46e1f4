// Package store provides the persistent category rule store: an ordered
// mapping from category name to the keywords that select it.
package store

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"
)

// DefaultRulesFile is used when no rules file is configured.
const DefaultRulesFile = "categories.yaml"

// RuleStore holds category rules in memory and rewrites the whole rules file
// after every successful mutation. Mutations are serialized; a mutation whose
// save fails is rolled back so memory and disk never diverge.
type RuleStore struct {
	mu       sync.RWMutex
	path     string
	logger   logging.Logger
	names    []string
	keywords map[string][]string
}

// NewRuleStore creates a store holding only the default category. Nothing is
// read from or written to path until a mutation or Save.
func NewRuleStore(path string, logger logging.Logger) *RuleStore {
	if path == "" {
		path = DefaultRulesFile
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &RuleStore{
		path:     path,
		logger:   logger,
		names:    []string{models.CategoryUncategorized},
		keywords: map[string][]string{models.CategoryUncategorized: {}},
	}
}

// Load reads the rules file at path. A missing file yields the default store.
// Unreadable or malformed files return a *RuleStoreIOError.
func Load(path string, logger logging.Logger) (*RuleStore, error) {
	s := NewRuleStore(path, logger)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("Rules file not found, starting with default categories",
				logging.Field{Key: logging.FieldFile, Value: s.path})
			return s, nil
		}
		return nil, &RuleStoreIOError{Op: "load", Path: s.path, Err: err}
	}

	rules, err := decodeRules(data)
	if err != nil {
		return nil, &RuleStoreIOError{Op: "load", Path: s.path, Err: err}
	}
	s.replace(rules)

	s.logger.Debug("Loaded category rules",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(s.names)})
	return s, nil
}

// Open is Load that never fails: when the file cannot be read or parsed the
// problem is logged and the default store is returned.
func Open(path string, logger logging.Logger) *RuleStore {
	s, err := Load(path, logger)
	if err != nil {
		fallback := NewRuleStore(path, logger)
		fallback.logger.WithError(err).Warn("Failed to load category rules, using default categories")
		return fallback
	}
	return s
}

// replace installs decoded rules, keeping the default category first when the
// file did not list it and dropping any keywords attached to it.
func (s *RuleStore) replace(rules models.Rules) {
	s.names = make([]string, 0, len(rules)+1)
	s.keywords = make(map[string][]string, len(rules)+1)

	for _, rule := range rules {
		if existing, ok := s.keywords[rule.Name]; ok {
			s.keywords[rule.Name] = appendMissing(existing, rule.Keywords)
			continue
		}
		s.names = append(s.names, rule.Name)
		s.keywords[rule.Name] = appendMissing(nil, rule.Keywords)
	}

	if _, ok := s.keywords[models.CategoryUncategorized]; !ok {
		s.names = append([]string{models.CategoryUncategorized}, s.names...)
	}
	if kws := s.keywords[models.CategoryUncategorized]; len(kws) > 0 {
		s.logger.Warn("Ignoring keywords listed under the default category",
			logging.Field{Key: logging.FieldCount, Value: len(kws)})
	}
	s.keywords[models.CategoryUncategorized] = []string{}
}

// Path returns the rules file location.
func (s *RuleStore) Path() string {
	return s.path
}

// Categories returns the category names in store order.
func (s *RuleStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.names...)
}

// Has reports whether the category exists. The name is matched as given.
func (s *RuleStore) Has(category string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keywords[category]
	return ok
}

// Keywords returns a copy of the keywords of a category.
func (s *RuleStore) Keywords(category string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kws, ok := s.keywords[category]
	if !ok {
		return nil, false
	}
	return append([]string{}, kws...), true
}

// Snapshot returns a deep copy of the rules in store order.
func (s *RuleStore) Snapshot() models.Rules {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *RuleStore) snapshotLocked() models.Rules {
	rules := make(models.Rules, 0, len(s.names))
	for _, name := range s.names {
		rules = append(rules, models.CategoryRule{
			Name:     name,
			Keywords: append([]string{}, s.keywords[name]...),
		})
	}
	return rules
}

// Save writes the whole store to its file.
func (s *RuleStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveLocked()
}

func (s *RuleStore) saveLocked() error {
	data, err := encodeRules(s.snapshotLocked())
	if err != nil {
		return &RuleStoreIOError{Op: "save", Path: s.path, Err: err}
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return &RuleStoreIOError{Op: "save", Path: s.path, Err: err}
	}
	s.logger.Debug("Saved category rules",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(s.names)})
	return nil
}

// AddCategory creates an empty category. The name is normalized with
// NormalizeCategoryName; it returns false when the result is empty or already
// exists.
func (s *RuleStore) AddCategory(name string) (bool, error) {
	name = NormalizeCategoryName(name)
	if name == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keywords[name]; ok {
		return false, nil
	}

	s.names = append(s.names, name)
	s.keywords[name] = []string{}
	if err := s.saveLocked(); err != nil {
		s.names = s.names[:len(s.names)-1]
		delete(s.keywords, name)
		return false, err
	}

	s.logger.Info("Added category", logging.Field{Key: logging.FieldCategory, Value: name})
	return true, nil
}

// DeleteCategory removes a category and its keywords. The default category
// cannot be deleted; absent categories are a no-op.
func (s *RuleStore) DeleteCategory(name string) (bool, error) {
	name = NormalizeCategoryName(name)
	if name == "" || name == models.CategoryUncategorized {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kws, ok := s.keywords[name]
	if !ok {
		return false, nil
	}
	previous := s.names
	idx := indexOf(previous, name)

	s.names = append(previous[:idx:idx], previous[idx+1:]...)
	delete(s.keywords, name)
	if err := s.saveLocked(); err != nil {
		s.names = previous
		s.keywords[name] = kws
		return false, err
	}

	s.logger.Info("Deleted category", logging.Field{Key: logging.FieldCategory, Value: name})
	return true, nil
}

// AddKeyword appends a keyword to a category. The keyword is trimmed; it
// returns false when it is empty, already present (case-insensitively) or the
// category is the default one. Unknown categories yield ErrCategoryNotFound.
func (s *RuleStore) AddKeyword(category, keyword string) (bool, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kws, ok := s.keywords[category]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrCategoryNotFound, category)
	}
	if category == models.CategoryUncategorized || containsKeyword(kws, keyword) {
		return false, nil
	}

	s.keywords[category] = append(kws, keyword)
	if err := s.saveLocked(); err != nil {
		s.keywords[category] = kws
		return false, err
	}

	s.logger.Info("Added keyword",
		logging.Field{Key: logging.FieldCategory, Value: category},
		logging.Field{Key: logging.FieldKeyword, Value: keyword})
	return true, nil
}

// NormalizeCategoryName trims and lowercases name, then capitalizes its first
// letter: "  groceries " and "GROCERIES" both become "Groceries".
func NormalizeCategoryName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToTitle(first)) + name[size:]
}

func containsKeyword(keywords []string, keyword string) bool {
	for _, existing := range keywords {
		if strings.EqualFold(strings.TrimSpace(existing), keyword) {
			return true
		}
	}
	return false
}

// appendMissing appends trimmed, non-empty keywords not already present.
func appendMissing(dst, keywords []string) []string {
	if dst == nil {
		dst = []string{}
	}
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" || containsKeyword(dst, kw) {
			continue
		}
		dst = append(dst, kw)
	}
	return dst
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
