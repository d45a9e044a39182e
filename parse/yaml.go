package parse

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/netvine/yangdoc/data"
	"github.com/netvine/yangdoc/debug"
	"github.com/netvine/yangdoc/schema"
)

// YAML parses a YAML instance document into a data tree and returns the
// first top-level sibling.
func YAML(ctx *schema.Context, b []byte) (*data.Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(b, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	doc, err := fromYAML(v)
	if err != nil {
		return nil, err
	}
	obj, ok := doc.(object)
	if !ok {
		return nil, fmt.Errorf("%w: document root must be a mapping", ErrParse)
	}
	if debug.Parse() {
		debug.Logf("parse: yaml document with %d top-level members\n", len(obj))
	}
	return build(ctx, obj)
}

// fromYAML normalizes goccy's decoded forms into the shared ordered
// representation.
func fromYAML(v any) (any, error) {
	switch x := v.(type) {
	case yaml.MapSlice:
		obj := make(object, 0, len(x))
		for _, item := range x {
			name, ok := item.Key.(string)
			if !ok {
				return nil, fmt.Errorf("%w: mapping key %v is not a string", ErrParse, item.Key)
			}
			val, err := fromYAML(item.Value)
			if err != nil {
				return nil, err
			}
			obj = append(obj, field{name: name, val: val})
		}
		return obj, nil
	case []any:
		arr := make([]any, 0, len(x))
		for _, item := range x {
			val, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		return arr, nil
	default:
		return v, nil
	}
}
