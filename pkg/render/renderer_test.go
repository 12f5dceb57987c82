package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/vango-ext/pkg/vdom"
)

func TestRenderText(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Text("Hello, World!"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Text("<script>alert('xss')</script>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("HTML should be escaped, got %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;alert(&#39;xss&#39;)") {
		t.Errorf("should contain escaped script tag, got %q", html)
	}
}

func TestRenderElement(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Div(vdom.Class("container"),
		vdom.Span(vdom.Text("Title")),
		vdom.P(vdom.Text("Content")),
	)
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div class="container"><span>Title</span><p>Content</p></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderAttributesSortedAndEscaped(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Button(
		vdom.Data("variant", "success"),
		vdom.Class("btn"),
		vdom.AttrOf("title", "a \"quoted\"\nvalue"),
		vdom.AttrOf("_internal", "x"),
		vdom.AttrOf("tabindex", 3),
	)
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<button class="btn" data-variant="success" tabindex="3" title="a &quot;quoted&quot;&#10;value"></button>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderBooleanAttributes(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	on, _ := renderer.RenderToString(vdom.Button(vdom.Disabled()))
	if on != "<button disabled></button>" {
		t.Errorf("got %q", on)
	}
	off, _ := renderer.RenderToString(vdom.Button(vdom.AttrOf("disabled", false)))
	if off != "<button></button>" {
		t.Errorf("got %q", off)
	}
}

func TestRenderEventMarkers(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Button(vdom.OnClick(func() {}), "Go"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != `<button data-on-click="true">Go</button>` {
		t.Errorf("got %q", html)
	}
}

func TestRenderVoidElement(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, _ := renderer.RenderToString(vdom.El("input", vdom.Type("text")))
	if html != `<input type="text">` {
		t.Errorf("got %q", html)
	}
}

func TestRenderFragmentComponentRaw(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Fragment(
		vdom.Func(func() *vdom.VNode { return vdom.Strong("hi") }),
		vdom.Raw("<hr>"),
		"tail",
	)
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "<strong>hi</strong><hr>tail" {
		t.Errorf("got %q", html)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})
	if _, err := renderer.RenderToString(&vdom.VNode{Kind: vdom.VKind(99)}); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := renderer.RenderToString(&vdom.VNode{Kind: vdom.KindElement}); err == nil {
		t.Error("expected error for element without tag")
	}
}

func TestRenderPretty(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true})

	html, err := renderer.RenderToString(vdom.Div(vdom.P("a")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "<div>\n  <p>\na  </p>\n</div>\n" {
		t.Errorf("got %q", html)
	}
}

func TestRenderPage(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	var buf bytes.Buffer
	err := renderer.RenderPage(&buf, PageData{
		Title:   "Preview <CustomButton>",
		Styles:  []string{".x{color:red}"},
		Body:    vdom.Div("body"),
		BodyEnd: []string{"<script>reload()</script>"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>Preview &lt;CustomButton&gt;</title>",
		"<style>.x{color:red}</style>",
		"<div>body</div>\n<script>reload()</script></body>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q:\n%s", want, out)
		}
	}
}
