package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{KindRaw, "Raw"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVNodeIsInteractive(t *testing.T) {
	tests := []struct {
		name string
		node *VNode
		want bool
	}{
		{"nil node", nil, false},
		{"text node", &VNode{Kind: KindText, Text: "hello"}, false},
		{"element without handlers", &VNode{Kind: KindElement, Tag: "div", Props: Props{"class": "test"}}, false},
		{"element with onclick", &VNode{Kind: KindElement, Tag: "button", Props: Props{"onclick": func() {}}}, true},
		{"bare on prefix", &VNode{Kind: KindElement, Tag: "div", Props: Props{"on": "x"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsInteractive(); got != tt.want {
				t.Errorf("IsInteractive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateElement(t *testing.T) {
	clicked := false
	node := Button(
		Class("btn", "", "btn-primary", "btn"),
		Data("variant", "success"),
		Key("k1"),
		nil,
		OnClick(func() { clicked = true }),
		OnInput(nil),
		"Save",
		Span(Text("!")),
	)

	if node.Tag != "button" || node.Kind != KindElement {
		t.Fatalf("unexpected node %+v", node)
	}
	if got := node.Attr("class"); got != "btn btn-primary" {
		t.Errorf("class = %q", got)
	}
	if got := node.Attr("data-variant"); got != "success" {
		t.Errorf("data-variant = %q", got)
	}
	if node.Key != "k1" {
		t.Errorf("Key = %q", node.Key)
	}
	if _, ok := node.Props["key"]; ok {
		t.Error("key should not be stored as a prop")
	}
	if _, ok := node.Props["oninput"]; ok {
		t.Error("nil handlers should be dropped")
	}
	if len(node.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(node.Children))
	}
	node.Props["onclick"].(func())()
	if !clicked {
		t.Error("onclick handler not wired")
	}
}

func TestFragmentAndComponent(t *testing.T) {
	comp := Func(func() *VNode { return Span(Text("inner")) })
	frag := Fragment(nil, "a", []*VNode{Text("b"), nil}, comp)

	if len(frag.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(frag.Children))
	}
	if frag.Children[2].Kind != KindComponent {
		t.Errorf("third child kind = %s", frag.Children[2].Kind)
	}
	if got := TextContent(frag); got != "abinner" {
		t.Errorf("TextContent = %q", got)
	}
	if Find(frag, "span") == nil {
		t.Error("Find should descend into components")
	}
}

func TestFindAll(t *testing.T) {
	tree := Div(Span(Text("1")), Section(Span(Text("2"))), Span(Text("3")))
	if got := len(FindAll(tree, "span")); got != 3 {
		t.Errorf("FindAll = %d, want 3", got)
	}
	if Find(tree, "button") != nil {
		t.Error("Find should return nil when absent")
	}
}

func TestClasses(t *testing.T) {
	if got := Classes("a b", "", "  c ", "a"); got != "a b c" {
		t.Errorf("Classes = %q", got)
	}
}

func TestIfWhen(t *testing.T) {
	n := Text("x")
	if If(false, n) != nil || If(true, n) != n {
		t.Error("If misbehaves")
	}
	called := false
	When(false, func() *VNode { called = true; return n })
	if called {
		t.Error("When should be lazy")
	}
}
