package structured

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

// ParseYAML decodes the first YAML document in data keeping mapping order.
// Mappings become *domain.Record and sequences []any.
func ParseYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if root.Kind == 0 {
		return nil, nil
	}
	return convertNode(&root, 0)
}

// maxAliasDepth bounds alias expansion.
const maxAliasDepth = 64

func convertNode(n *yaml.Node, depth int) (any, error) {
	if depth > maxAliasDepth {
		return nil, fmt.Errorf("%w: YAML nesting too deep", domain.ErrInvalidInput)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return convertNode(n.Content[0], depth+1)

	case yaml.MappingNode:
		rec := domain.NewRecord()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Tag == "!!merge" {
				if err := mergeInto(rec, val, depth); err != nil {
					return nil, err
				}
				continue
			}
			v, err := convertNode(val, depth+1)
			if err != nil {
				return nil, err
			}
			rec.Set(key.Value, v)
		}
		return rec, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := convertNode(c, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case yaml.AliasNode:
		return convertNode(n.Alias, depth+1)

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidInput, n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: unsupported YAML node at line %d", domain.ErrInvalidInput, n.Line)
}

// mergeInto applies a "<<" merge key. Keys already present win.
func mergeInto(rec *domain.Record, val *yaml.Node, depth int) error {
	v, err := convertNode(val, depth+1)
	if err != nil {
		return err
	}
	sources := []any{v}
	if seq, ok := v.([]any); ok {
		sources = seq
	}
	for _, s := range sources {
		src, ok := s.(*domain.Record)
		if !ok {
			return fmt.Errorf("%w: merge value is not a mapping", domain.ErrInvalidInput)
		}
		for _, k := range src.Keys() {
			if _, exists := rec.Get(k); !exists {
				sv, _ := src.Get(k)
				rec.Set(k, sv)
			}
		}
	}
	return nil
}
