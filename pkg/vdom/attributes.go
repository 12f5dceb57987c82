package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining non-empty classes with spaces.
func Class(classes ...string) Attr { return attr("class", Classes(classes...)) }

// StyleAttr sets the style attribute.
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("variant", "success") → data-variant="success"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLive sets the aria-live attribute.
func AriaLive(mode string) Attr { return attr("aria-live", mode) }

// Disabled sets the disabled boolean attribute.
func Disabled() Attr { return attr("disabled", true) }

// Key creates a key attribute for reconciliation.
func Key(key string) Attr { return attr("key", key) }

// AttrOf creates an attribute with an arbitrary name.
func AttrOf(name string, value any) Attr { return attr(name, value) }

// Classes joins class names, dropping empty and duplicate entries while
// keeping first-seen order.
func Classes(classes ...string) string {
	seen := make(map[string]bool, len(classes))
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		for _, f := range strings.Fields(c) {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return strings.Join(out, " ")
}
