// Package catalog builds and publishes the component catalog: a JSON
// manifest describing every loaded component and its metadata.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/host"
)

// Version is the manifest format version.
const Version = 1

// Manifest describes a set of components.
type Manifest struct {
	Version    int     `json:"version"`
	Components []Entry `json:"components"`
}

// Entry describes one component.
type Entry struct {
	Namespace string              `json:"namespace"`
	Name      string              `json:"name"`
	Qualified string              `json:"qualified"`
	Renderer  string              `json:"renderer"`
	Metadata  *component.Metadata `json:"metadata"`
}

func entry(namespace string, reg *component.Registration) Entry {
	return Entry{
		Namespace: namespace,
		Name:      reg.Name(),
		Qualified: namespace + "." + reg.Name(),
		Renderer:  component.RendererKind(reg.Renderer()),
		Metadata:  reg.Metadata(),
	}
}

// Build describes the components of exts, in order.
func Build(exts ...*component.Extension) *Manifest {
	m := &Manifest{Version: Version, Components: []Entry{}}
	for _, ext := range exts {
		for _, reg := range ext.Components() {
			m.Components = append(m.Components, entry(ext.Namespace(), reg))
		}
	}
	return m
}

// FromEngine describes every component loaded into e.
func FromEngine(e *host.Engine) *Manifest {
	m := &Manifest{Version: Version, Components: []Entry{}}
	for _, info := range e.Components() {
		m.Components = append(m.Components, entry(info.Namespace, info.Registration))
	}
	return m
}

// Lookup returns the entry for a qualified component name.
func (m *Manifest) Lookup(qualified string) (Entry, bool) {
	for _, e := range m.Components {
		if e.Qualified == qualified {
			return e, true
		}
	}
	return Entry{}, false
}

// Namespaces returns the namespaces in the manifest in first-seen order.
func (m *Manifest) Namespaces() []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range m.Components {
		if !seen[e.Namespace] {
			seen[e.Namespace] = true
			out = append(out, e.Namespace)
		}
	}
	return out
}

// JSON returns the indented manifest document.
func (m *Manifest) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Digest returns the hex SHA-256 of the manifest document.
func (m *Manifest) Digest() (string, error) {
	data, err := m.JSON()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
