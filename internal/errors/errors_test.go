package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "descriptor error",
			code:    "E202",
			wantMsg: "Duplicate property name",
			wantCat: CategoryDescriptor,
		},
		{
			name:    "render error",
			code:    "E213",
			wantMsg: "Missing required property",
			wantCat: CategoryRender,
		},
		{
			name:    "bridge error",
			code:    "E240",
			wantMsg: "Bridge action unavailable",
			wantCat: CategoryBridge,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestExtError_Error(t *testing.T) {
	err := New("E202")
	if got, want := err.Error(), "E202: Duplicate property name"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err.WithDetail(`prop "label"`)
	if got, want := err.Error(), `E202: Duplicate property name (prop "label")`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &ExtError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestExtError_WithLocation(t *testing.T) {
	source := "line1\nline2\nline3\nline4\nline5\nline6"
	err := New("E221").WithLocation("CustomButton.xmlui", 3, 4, source)

	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.String() != "CustomButton.xmlui:3:4" {
		t.Errorf("Location = %q", err.Location.String())
	}
	if len(err.Context) != 5 {
		t.Fatalf("Context has %d lines, want 5", len(err.Context))
	}
	if err.Context[0] != "line1" || err.Context[4] != "line5" {
		t.Errorf("Context = %v", err.Context)
	}
}

func TestExtError_WithLocationNoSource(t *testing.T) {
	err := New("E221").WithLocation("x.xmlui", 1, 0, "")
	if err.Context != nil {
		t.Errorf("Context = %v, want nil", err.Context)
	}
	if err.Location.String() != "x.xmlui:1" {
		t.Errorf("Location = %q", err.Location.String())
	}
}

func TestWrapAndHasCode(t *testing.T) {
	inner := New("E241")
	outer := New("E220").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !HasCode(outer, "E220") || !HasCode(outer, "E241") {
		t.Error("HasCode should find both codes in the chain")
	}
	if HasCode(outer, "E999") {
		t.Error("HasCode should not match absent code")
	}

	wrapped := fmt.Errorf("loading: %w", outer)
	if !HasCode(wrapped, "E241") {
		t.Error("HasCode should see through fmt.Errorf wrapping")
	}
	if CodeOf(wrapped) != "E220" {
		t.Errorf("CodeOf = %q, want E220", CodeOf(wrapped))
	}
	if HasCode(nil, "E220") {
		t.Error("HasCode(nil) should be false")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E220") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	ee := New("E230")
	if FromError(ee, "E220") != ee {
		t.Error("FromError should return ExtError as-is")
	}

	std := fmt.Errorf("boom")
	result := FromError(std, "E220")
	if result.Wrapped != std || result.Code != "E220" {
		t.Errorf("FromError = %+v", result)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E222").
		WithLocation("Card.xmlui", 2, 5, "<Component name=\"Card\">\n  <p>${nope}</p>\n</Component>").
		WithSuggestion("Declare the property in the metadata").
		Wrap(fmt.Errorf("unknown variable"))

	out := err.Format()
	for _, want := range []string{
		"ERROR E222: Markup evaluation error",
		"Card.xmlui:2:5",
		"→    2 │   <p>${nope}</p>",
		"Cause: unknown variable",
		"Hint: Declare the property in the metadata",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatFallsBackToHelp(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("E205").Format()
	if !strings.Contains(out, "at least one allowed value") {
		t.Errorf("Format() should include template help:\n%s", out)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E213").WithDetail(`"label" is required`)

	var decoded map[string]any
	if e := json.Unmarshal([]byte(err.FormatJSON()), &decoded); e != nil {
		t.Fatalf("invalid JSON: %v", e)
	}
	if decoded["code"] != "E213" {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["category"] != string(CategoryRender) {
		t.Errorf("category = %v", decoded["category"])
	}
	if decoded["detail"] != `"label" is required` {
		t.Errorf("detail = %v", decoded["detail"])
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, fmt.Errorf("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("Fprint plain = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, New("E234"))
	if !strings.Contains(buf.String(), "E234: Unknown component") {
		t.Errorf("Fprint coded = %q", buf.String())
	}
}

func TestAllCodesHaveTemplates(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("no codes registered")
	}
	for i, code := range codes {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("code %s has incomplete template", code)
		}
		if i > 0 && codes[i-1] >= code {
			t.Errorf("codes not sorted: %s before %s", codes[i-1], code)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line too long: %q", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce nil")
	}
}
