package component

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"

	"github.com/vango-dev/vango-ext/internal/errors"
)

// Props holds property values passed to a component.
type Props map[string]any

// Has reports whether the property is set.
func (p Props) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// String returns a property as a string, or "" when it is unset or not a
// string.
func (p Props) String(name string) string {
	s, _ := p[name].(string)
	return s
}

// Number returns a numeric property.
func (p Props) Number(name string) float64 {
	f, _ := toFloat(p[name])
	return f
}

// Bool returns a boolean property.
func (p Props) Bool(name string) bool {
	b, _ := p[name].(bool)
	return b
}

// Func returns a function-typed property, or nil when unset.
func (p Props) Func(name string) any {
	v := p[name]
	if v == nil || reflect.ValueOf(v).Kind() != reflect.Func {
		return nil
	}
	return v
}

// Clone returns a shallow copy.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Resolve validates props against the descriptor and fills defaults.
//
// Undeclared properties, type mismatches, enum values outside the declared
// set and missing required properties are errors. A nil value counts as
// unset. Optional properties without a default that are not set stay
// absent. Resolving an already resolved set returns an equal set.
func (m *Metadata) Resolve(props Props) (Props, error) {
	out := make(Props, len(m.props))

	for name, v := range props {
		spec, ok := m.Prop(name)
		if !ok {
			return nil, errors.New("E210").WithDetailf("property %q", name)
		}
		if v == nil {
			continue
		}
		cv, err := coerce(spec, v)
		if err != nil {
			code := "E211"
			if _, isEnum := err.(enumError); isEnum {
				code = "E212"
			}
			return nil, errors.New(code).WithDetailf("property %q: %v", name, err)
		}
		out[name] = cv
	}

	for _, spec := range m.props {
		if _, set := out[spec.Name]; set {
			continue
		}
		switch {
		case spec.Default != nil:
			out[spec.Name] = spec.Default
		case !spec.Optional:
			return nil, errors.New("E213").WithDetailf("property %q", spec.Name)
		}
	}

	return out, nil
}

type enumError struct {
	value  string
	values []string
}

func (e enumError) Error() string {
	return fmt.Sprintf("%q is not one of %v", e.value, e.values)
}

// coerce converts v to the canonical representation of spec's type.
// Markup attributes arrive as strings, so numeric and boolean properties
// accept their textual forms.
func coerce(spec PropSpec, v any) (any, error) {
	switch spec.Type {
	case TypeAny:
		return v, nil

	case TypeString:
		switch s := v.(type) {
		case string:
			return s, nil
		case fmt.Stringer:
			return s.String(), nil
		case bool:
			return strconv.FormatBool(s), nil
		}
		if f, ok := toFloat(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64), nil
		}

	case TypeNumber:
		if s, ok := v.(string); ok {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil || math.IsNaN(f) {
				return nil, fmt.Errorf("%q is not a number", s)
			}
			return f, nil
		}
		if f, ok := toFloat(v); ok {
			return f, nil
		}

	case TypeBoolean:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, fmt.Errorf("%q is not a boolean", b)
			}
			return parsed, nil
		}

	case TypeEnum:
		s, ok := v.(string)
		if !ok {
			break
		}
		if !slices.Contains(spec.Values, s) {
			return nil, enumError{value: s, values: spec.Values}
		}
		return s, nil

	case TypeFunction:
		if reflect.ValueOf(v).Kind() == reflect.Func {
			return v, nil
		}
	}

	return nil, fmt.Errorf("expected %s, got %T", spec.Type, v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
