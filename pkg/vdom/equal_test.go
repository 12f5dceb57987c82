package vdom

import (
	"strings"
	"testing"
)

func TestEqualIdenticalTrees(t *testing.T) {
	build := func() *VNode {
		return Div(Class("card"),
			Span(Text("title")),
			Button(OnClick(func() {}), Text("go")),
		)
	}
	if d := Differences(build(), build()); len(d) != 0 {
		t.Errorf("identical trees differ: %v", d)
	}
}

func TestEqualDetectsChanges(t *testing.T) {
	base := Div(Class("card"), Span(Text("a")))

	tests := []struct {
		name string
		next *VNode
		want string
	}{
		{"text", Div(Class("card"), Span(Text("b"))), `text "a" != "b"`},
		{"attr changed", Div(Class("box"), Span(Text("a"))), `attribute "class"`},
		{"attr added", Div(Class("card"), ID("x"), Span(Text("a"))), `attribute "id" added`},
		{"tag", Div(Class("card"), P(Text("a"))), `tag "span" != "p"`},
		{"children", Div(Class("card")), "1 children != 0"},
		{"kind", Text("a"), "kind Element != Text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diffs := Differences(base, tt.next)
			if len(diffs) == 0 {
				t.Fatal("expected differences")
			}
			if !strings.Contains(strings.Join(diffs, "\n"), tt.want) {
				t.Errorf("diffs %v do not mention %q", diffs, tt.want)
			}
		})
	}
}

func TestEqualHandlersByPresence(t *testing.T) {
	a := Button(OnClick(func() {}))
	b := Button(OnClick(func() {}))
	if !Equal(a, b) {
		t.Error("different handler funcs should compare equal")
	}
	if Equal(a, Button()) {
		t.Error("missing handler should differ")
	}
}

func TestEqualNil(t *testing.T) {
	if !Equal(nil, nil) {
		t.Error("nil trees are equal")
	}
	if Equal(nil, Text("x")) {
		t.Error("nil vs node should differ")
	}
}
