package vdom

import (
	"fmt"
	"reflect"
)

// Equal reports whether two trees are structurally identical.
func Equal(a, b *VNode) bool {
	return len(Differences(a, b)) == 0
}

// Differences lists every structural difference between prev and next as
// human-readable paths such as "div[0]/span[1]: text "a" != "b"".
// Event handlers only have to be present on both sides; their values are
// not compared.
func Differences(prev, next *VNode) []string {
	var out []string
	differences(prev, next, "", &out)
	return out
}

func differences(prev, next *VNode, path string, out *[]string) {
	if prev == nil && next == nil {
		return
	}
	if prev == nil || next == nil {
		*out = append(*out, fmt.Sprintf("%s: node presence differs", label(path)))
		return
	}

	here := path + "/" + nodeName(prev)
	if prev.Kind != next.Kind {
		*out = append(*out, fmt.Sprintf("%s: kind %s != %s", here, prev.Kind, next.Kind))
		return
	}

	switch prev.Kind {
	case KindText, KindRaw:
		if prev.Text != next.Text {
			*out = append(*out, fmt.Sprintf("%s: text %q != %q", here, prev.Text, next.Text))
		}
		return
	case KindComponent:
		var pr, nr *VNode
		if prev.Comp != nil {
			pr = prev.Comp.Render()
		}
		if next.Comp != nil {
			nr = next.Comp.Render()
		}
		differences(pr, nr, here, out)
		return
	case KindElement:
		if prev.Tag != next.Tag {
			*out = append(*out, fmt.Sprintf("%s: tag %q != %q", here, prev.Tag, next.Tag))
			return
		}
		if prev.Key != next.Key {
			*out = append(*out, fmt.Sprintf("%s: key %q != %q", here, prev.Key, next.Key))
		}
		propDifferences(prev, next, here, out)
	}

	if len(prev.Children) != len(next.Children) {
		*out = append(*out, fmt.Sprintf("%s: %d children != %d", here, len(prev.Children), len(next.Children)))
		return
	}
	for i := range prev.Children {
		differences(prev.Children[i], next.Children[i], fmt.Sprintf("%s[%d]", here, i), out)
	}
}

// propDifferences compares attributes.
func propDifferences(prev, next *VNode, path string, out *[]string) {
	for key, prevVal := range prev.Props {
		nextVal, exists := next.Props[key]
		switch {
		case !exists:
			*out = append(*out, fmt.Sprintf("%s: attribute %q removed", path, key))
		case IsEventKey(key):
			if (prevVal == nil) != (nextVal == nil) {
				*out = append(*out, fmt.Sprintf("%s: handler %q presence differs", path, key))
			}
		case !propsEqual(prevVal, nextVal):
			*out = append(*out, fmt.Sprintf("%s: attribute %q %v != %v", path, key, prevVal, nextVal))
		}
	}
	for key := range next.Props {
		if _, exists := prev.Props[key]; !exists {
			*out = append(*out, fmt.Sprintf("%s: attribute %q added", path, key))
		}
	}
}

func propsEqual(a, b any) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if a != nil && reflect.TypeOf(a).Kind() == reflect.Func {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func nodeName(n *VNode) string {
	if n.Kind == KindElement {
		return n.Tag
	}
	return n.Kind.String()
}

func label(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
