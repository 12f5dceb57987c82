package component

import (
	"encoding/json"
	"regexp"
	"slices"

	"github.com/vango-dev/vango-ext/internal/errors"
)

// Status describes the maturity of a component. It is informational only.
type Status string

const (
	StatusDraft        Status = "draft"
	StatusExperimental Status = "experimental"
	StatusStable       Status = "stable"
	StatusDeprecated   Status = "deprecated"
	StatusInternal     Status = "internal"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusExperimental, StatusStable, StatusDeprecated, StatusInternal:
		return true
	}
	return false
}

// PropType is the declared type of a property.
type PropType string

const (
	TypeString   PropType = "string"
	TypeNumber   PropType = "number"
	TypeBoolean  PropType = "boolean"
	TypeFunction PropType = "function"
	TypeEnum     PropType = "enum"
	TypeAny      PropType = "any"
)

// Valid reports whether t is a known property type.
func (t PropType) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeFunction, TypeEnum, TypeAny:
		return true
	}
	return false
}

// PropSpec declares one property of a component.
type PropSpec struct {
	Name        string   `json:"name" yaml:"name"`
	Type        PropType `json:"type" yaml:"type"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any      `json:"default,omitempty" yaml:"default,omitempty"`
	Optional    bool     `json:"optional,omitempty" yaml:"optional,omitempty"`

	// Values lists the allowed values of an enum property.
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`
}

// HasDefault reports whether the property carries a default value.
func (p PropSpec) HasDefault() bool { return p.Default != nil }

// Required reports whether every use of the component must set the
// property.
func (p PropSpec) Required() bool { return !p.Optional && p.Default == nil }

// Record is the raw, unvalidated input to CreateMetadata.
type Record struct {
	Status      Status
	Description string
	Props       []PropSpec
}

// Metadata is a validated, immutable component descriptor.
type Metadata struct {
	status      Status
	description string
	props       []PropSpec
	index       map[string]int
}

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s can be used as a property name or
// namespace.
func IsIdentifier(s string) bool { return identRE.MatchString(s) }

// CreateMetadata validates a record and returns its descriptor.
//
// An empty status defaults to draft. Defaults are normalized to their
// canonical Go representation (numbers become float64).
func CreateMetadata(r Record) (*Metadata, error) {
	status := r.Status
	if status == "" {
		status = StatusDraft
	}
	if !status.Valid() {
		return nil, errors.New("E207").WithDetailf("status %q", r.Status)
	}

	md := &Metadata{
		status:      status,
		description: r.Description,
		props:       make([]PropSpec, 0, len(r.Props)),
		index:       make(map[string]int, len(r.Props)),
	}

	for _, p := range r.Props {
		if !IsIdentifier(p.Name) {
			return nil, errors.New("E201").WithDetailf("property %q", p.Name)
		}
		if _, dup := md.index[p.Name]; dup {
			return nil, errors.New("E202").WithDetailf("property %q", p.Name)
		}
		if !p.Type.Valid() {
			return nil, errors.New("E203").WithDetailf("property %q has type %q", p.Name, p.Type)
		}
		if p.Type == TypeEnum && len(p.Values) == 0 {
			return nil, errors.New("E205").WithDetailf("property %q", p.Name)
		}

		spec := p
		spec.Values = slices.Clone(p.Values)
		if p.Default != nil {
			if p.Type == TypeFunction {
				return nil, errors.New("E204").WithDetailf("property %q: function properties cannot have a default", p.Name)
			}
			v, err := coerce(spec, p.Default)
			if err != nil {
				return nil, errors.New("E204").WithDetailf("property %q: %v", p.Name, err)
			}
			spec.Default = v
		}

		md.index[p.Name] = len(md.props)
		md.props = append(md.props, spec)
	}

	return md, nil
}

// MustMetadata is like CreateMetadata but panics on error. It is intended
// for package-level descriptors.
func MustMetadata(r Record) *Metadata {
	md, err := CreateMetadata(r)
	if err != nil {
		panic(err)
	}
	return md
}

// Status returns the component status.
func (m *Metadata) Status() Status { return m.status }

// Description returns the human-readable description.
func (m *Metadata) Description() string { return m.description }

// Len returns the number of declared properties.
func (m *Metadata) Len() int { return len(m.props) }

// Prop returns the declaration of the named property.
func (m *Metadata) Prop(name string) (PropSpec, bool) {
	i, ok := m.index[name]
	if !ok {
		return PropSpec{}, false
	}
	p := m.props[i]
	p.Values = slices.Clone(p.Values)
	return p, true
}

// Props returns the property declarations in declaration order.
func (m *Metadata) Props() []PropSpec {
	out := make([]PropSpec, len(m.props))
	for i, p := range m.props {
		p.Values = slices.Clone(p.Values)
		out[i] = p
	}
	return out
}

// PropNames returns the property names in declaration order.
func (m *Metadata) PropNames() []string {
	names := make([]string, len(m.props))
	for i, p := range m.props {
		names[i] = p.Name
	}
	return names
}

// Required returns the names of properties that every use must set.
func (m *Metadata) Required() []string {
	var names []string
	for _, p := range m.props {
		if p.Required() {
			names = append(names, p.Name)
		}
	}
	return names
}

type metadataJSON struct {
	Status      Status     `json:"status"`
	Description string     `json:"description,omitempty"`
	Props       []PropSpec `json:"props"`
}

// MarshalJSON encodes the descriptor with properties in declaration order.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(metadataJSON{
		Status:      m.status,
		Description: m.description,
		Props:       m.Props(),
	})
}
