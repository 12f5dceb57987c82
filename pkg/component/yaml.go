package component

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vango-ext/internal/errors"
)

// rawProp is the YAML shape of one property entry.
type rawProp struct {
	Type        PropType  `yaml:"type"`
	Description string    `yaml:"description"`
	Default     yaml.Node `yaml:"default"`
	Optional    bool      `yaml:"optional"`
	Values      []string  `yaml:"values"`
}

// ParseMetadataYAML decodes a metadata record and validates it.
//
//	status: stable
//	description: A customizable button component
//	props:
//	  label:
//	    type: string
//	    default: Button
//	  color:
//	    type: enum
//	    values: [primary, secondary, success, default]
//	    default: default
//
// Properties keep the order in which they appear in the document.
func ParseMetadataYAML(data []byte) (*Metadata, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New("E206").Wrap(err)
	}

	var rec Record
	if doc.Kind == 0 {
		return CreateMetadata(rec)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, malformed(root, "expected a mapping at the top level")
	}

	seen := make(map[string]bool)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if seen[key.Value] {
			return nil, malformed(key, fmt.Sprintf("duplicate key %q", key.Value))
		}
		seen[key.Value] = true

		switch key.Value {
		case "status":
			rec.Status = Status(val.Value)
		case "description":
			rec.Description = val.Value
		case "props":
			props, err := decodeProps(val)
			if err != nil {
				return nil, err
			}
			rec.Props = props
		default:
			return nil, malformed(key, fmt.Sprintf("unknown key %q", key.Value))
		}
	}

	return CreateMetadata(rec)
}

func decodeProps(node *yaml.Node) ([]PropSpec, error) {
	if node.Kind != yaml.MappingNode {
		return nil, malformed(node, "props must be a mapping of name to declaration")
	}

	props := make([]PropSpec, 0, len(node.Content)/2)
	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if seen[key.Value] {
			return nil, errors.New("E202").
				WithDetailf("property %q", key.Value).
				WithLocation("", key.Line, key.Column, "")
		}
		seen[key.Value] = true

		var raw rawProp
		if err := val.Decode(&raw); err != nil {
			return nil, malformed(val, err.Error())
		}

		spec := PropSpec{
			Name:        key.Value,
			Type:        raw.Type,
			Description: raw.Description,
			Optional:    raw.Optional,
			Values:      raw.Values,
		}
		if raw.Default.Kind != 0 && raw.Default.Tag != "!!null" {
			var def any
			if err := raw.Default.Decode(&def); err != nil {
				return nil, malformed(&raw.Default, err.Error())
			}
			spec.Default = def
		}
		props = append(props, spec)
	}
	return props, nil
}

func malformed(node *yaml.Node, detail string) error {
	return errors.New("E206").
		WithDetail(detail).
		WithLocation("", node.Line, node.Column, "")
}
