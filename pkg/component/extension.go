package component

import (
	"github.com/vango-dev/vango-ext/internal/errors"
)

// Extension groups registrations under a namespace. It is the unit a host
// loads.
type Extension struct {
	namespace  string
	components []*Registration
	byName     map[string]*Registration
}

// NewExtension aggregates registrations under namespace, keeping their
// order. Component names must be unique within the extension.
func NewExtension(namespace string, regs ...*Registration) (*Extension, error) {
	if !IsIdentifier(namespace) {
		return nil, errors.New("E231").WithDetailf("namespace %q", namespace)
	}
	if len(regs) == 0 {
		return nil, errors.New("E231").WithDetailf("namespace %q has no components", namespace)
	}

	ext := &Extension{
		namespace:  namespace,
		components: make([]*Registration, 0, len(regs)),
		byName:     make(map[string]*Registration, len(regs)),
	}
	for i, reg := range regs {
		if reg == nil {
			return nil, errors.New("E231").WithDetailf("namespace %q: component %d is nil", namespace, i)
		}
		if _, dup := ext.byName[reg.name]; dup {
			return nil, errors.New("E230").WithDetailf("%s.%s", namespace, reg.name)
		}
		ext.byName[reg.name] = reg
		ext.components = append(ext.components, reg)
	}
	return ext, nil
}

// MustExtension is like NewExtension but panics on error.
func MustExtension(namespace string, regs ...*Registration) *Extension {
	ext, err := NewExtension(namespace, regs...)
	if err != nil {
		panic(err)
	}
	return ext
}

// Namespace returns the extension namespace.
func (e *Extension) Namespace() string { return e.namespace }

// Components returns the registrations in order.
func (e *Extension) Components() []*Registration {
	out := make([]*Registration, len(e.components))
	copy(out, e.components)
	return out
}

// Lookup returns the registration with the given unqualified name.
func (e *Extension) Lookup(name string) (*Registration, bool) {
	reg, ok := e.byName[name]
	return reg, ok
}

// Names returns the component names in order.
func (e *Extension) Names() []string {
	names := make([]string, len(e.components))
	for i, reg := range e.components {
		names[i] = reg.name
	}
	return names
}

// Len returns the number of components.
func (e *Extension) Len() int { return len(e.components) }

// Qualified returns the namespace-qualified form of name.
func (e *Extension) Qualified(name string) string {
	return e.namespace + "." + name
}
