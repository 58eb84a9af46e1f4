package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"

	"gopkg.in/yaml.v3"
)

// decodeRules parses a rules document: a mapping from category name to a list
// of keywords. JSON documents are accepted as well since they are valid YAML.
// Mapping order is preserved.
func decodeRules(data []byte) (models.Rules, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing rules file: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return models.Rules{}, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return models.Rules{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("rules file must be a mapping of category to keywords, line %d", root.Line)
	}

	rules := make(models.Rules, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return nil, fmt.Errorf("invalid category name at line %d", key.Line)
		}

		rule := models.CategoryRule{Name: key.Value, Keywords: []string{}}
		switch {
		case value.Kind == yaml.ScalarNode && value.Tag == "!!null":
		case value.Kind == yaml.SequenceNode:
			for _, item := range value.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("keywords of %q must be strings, line %d", key.Value, item.Line)
				}
				rule.Keywords = append(rule.Keywords, item.Value)
			}
		default:
			return nil, fmt.Errorf("keywords of %q must be a list, line %d", key.Value, value.Line)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// encodeRules renders rules as a YAML mapping in rule order.
func encodeRules(rules models.Rules) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, rule := range rules {
		list := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if len(rule.Keywords) == 0 {
			list.Style = yaml.FlowStyle
		}
		for _, kw := range rule.Keywords {
			list.Content = append(list.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: kw})
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: rule.Name},
			list,
		)
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("error marshaling rules: %w", err)
	}
	return data, nil
}

// writeFileAtomic writes data next to path and renames it into place, so a
// reader sees either the previous or the new document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("error writing rules: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("error syncing rules: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("error closing rules file: %w", err)
	}
	if err := os.Chmod(tmpName, models.PermissionConfigFile); err != nil {
		cleanup()
		return fmt.Errorf("error setting rules file permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("error replacing rules file: %w", err)
	}
	return nil
}
