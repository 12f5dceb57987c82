package component

import (
	"encoding/xml"
	"io"
	"regexp"
	"strings"

	"github.com/vango-dev/vango-ext/internal/errors"
)

// Registration binds a component name to its metadata and renderer.
type Registration struct {
	name     string
	metadata *Metadata
	renderer Renderer
}

var componentNameRE = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)

// IsComponentName reports whether s is a valid component name. Component
// names start with an upper-case letter so markup can tell them apart from
// HTML elements.
func IsComponentName(s string) bool { return componentNameRE.MatchString(s) }

// NewRegistration builds a registration from its parts.
func NewRegistration(name string, md *Metadata, r Renderer) (*Registration, error) {
	if !IsComponentName(name) {
		return nil, errors.New("E231").WithDetailf("component name %q", name)
	}
	if md == nil {
		return nil, errors.New("E231").WithDetailf("component %q has no metadata", name)
	}
	if r == nil {
		return nil, errors.New("E231").WithDetailf("component %q has no renderer", name)
	}
	return &Registration{name: name, metadata: md, renderer: r}, nil
}

// NewNativeComponent registers a component rendered by fn.
func NewNativeComponent(name string, md *Metadata, fn RenderFunc) (*Registration, error) {
	if fn == nil {
		return nil, errors.New("E231").WithDetailf("component %q has no render function", name)
	}
	return NewRegistration(name, md, &NativeRenderer{fn: fn})
}

// NewMarkupComponent registers a component rendered from markup. The name
// comes from the root element of the fragment:
//
//	<Component name="CustomButton">
//	  <button class="custom-button">${label}</button>
//	</Component>
func NewMarkupComponent(md *Metadata, source string) (*Registration, error) {
	name, err := MarkupComponentName(source)
	if err != nil {
		return nil, err
	}
	return NewRegistration(name, md, &MarkupRenderer{source: source})
}

// MarkupComponentName reads the component name from the root element of a
// markup fragment.
func MarkupComponentName(source string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(source))
	dec.Strict = true

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", errors.New("E223").WithDetail("no root element")
		}
		if err != nil {
			return "", errors.New("E223").Wrap(err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "Component" {
			return "", errors.New("E223").WithDetailf("root element is <%s>", start.Name.Local)
		}
		for _, a := range start.Attr {
			if a.Name.Local != "name" {
				continue
			}
			if !IsComponentName(a.Value) {
				return "", errors.New("E223").WithDetailf("component name %q", a.Value)
			}
			return a.Value, nil
		}
		return "", errors.New("E223").WithDetail("root element has no name attribute")
	}
}

// Name returns the component name.
func (r *Registration) Name() string { return r.name }

// Metadata returns the component descriptor.
func (r *Registration) Metadata() *Metadata { return r.metadata }

// Renderer returns the component renderer.
func (r *Registration) Renderer() Renderer { return r.renderer }
