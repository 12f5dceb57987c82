package extensions

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/vdom"
)

// StyledTextMetadata describes StyledText.
var StyledTextMetadata = component.MustMetadata(component.Record{
	Status:      component.StatusStable,
	Description: "Text with a typographic variant, a size and a color",
	Props: []component.PropSpec{
		{Name: "text", Type: component.TypeString, Description: "The text to display; children are shown when empty", Optional: true},
		{
			Name:        "variant",
			Type:        component.TypeEnum,
			Description: "The typographic variant",
			Values:      []string{"normal", "bold", "italic", "underline"},
			Default:     "normal",
		},
		{
			Name:        "size",
			Type:        component.TypeEnum,
			Description: "The text size",
			Values:      []string{"small", "medium", "large", "xlarge"},
			Default:     "medium",
		},
		{Name: "color", Type: component.TypeString, Description: "A theme color name or any CSS color", Default: "inherit"},
	},
})

// styledTextScope prefixes the local class names of the StyledText style
// module so they cannot clash with host classes.
const styledTextScope = "xe-StyledText"

var styledTextRules = map[string]string{
	"styledText":        "display: inline; line-height: 1.5;",
	"variant-normal":    "font-weight: normal; font-style: normal;",
	"variant-bold":      "font-weight: 700;",
	"variant-italic":    "font-style: italic;",
	"variant-underline": "text-decoration: underline;",
	"size-small":        "font-size: 0.875rem;",
	"size-medium":       "font-size: 1rem;",
	"size-large":        "font-size: 1.25rem;",
	"size-xlarge":       "font-size: 1.5rem;",
}

// styledTextClass returns the scoped class for a local class name.
func styledTextClass(local string) string {
	return styledTextScope + "__" + local
}

// StyledTextStylesheet returns the CSS for the StyledText style module.
func StyledTextStylesheet() string {
	locals := make([]string, 0, len(styledTextRules))
	for local := range styledTextRules {
		locals = append(locals, local)
	}
	sort.Strings(locals)

	var b strings.Builder
	for _, local := range locals {
		fmt.Fprintf(&b, ".%s { %s }\n", styledTextClass(local), styledTextRules[local])
	}
	return b.String()
}

// Stylesheet returns the CSS every component in the namespace needs.
func Stylesheet() string {
	return StyledTextStylesheet() + customButtonStylesheet
}

const customButtonStylesheet = `.custom-button { padding: 0.5rem 1rem; border-radius: 4px; border: 1px solid transparent; cursor: pointer; }
.custom-button--default { background: #e5e7eb; color: #111827; }
.custom-button--primary { background: #2563eb; color: #fff; }
.custom-button--secondary { background: #6b7280; color: #fff; }
.custom-button--success { background: #16a34a; color: #fff; }
`

// cssColor matches the color forms StyledText writes into a style
// attribute: a keyword, a hex color, or an rgb/hsl function.
var cssColor = regexp.MustCompile(`^(?:[a-zA-Z]+|#[0-9a-fA-F]{3,8}|(?:rgb|rgba|hsl|hsla)\([0-9a-z.,%/ ]+\))$`)

func renderStyledText(rc *component.RenderContext) *vdom.VNode {
	variant := rc.Props.String("variant")
	size := rc.Props.String("size")

	color := rc.Props.String("color")
	if themed := rc.Style("color-" + color); themed != "" {
		color = themed
	}

	var content any = rc.Props.String("text")
	if content == "" {
		content = rc.Children
	}

	args := []any{vdom.Class(
		styledTextClass("styledText"),
		styledTextClass("variant-"+variant),
		styledTextClass("size-"+size),
	)}
	if cssColor.MatchString(color) {
		args = append(args, vdom.StyleAttr("color: "+color))
	} else {
		rc.Logger().Warn("ignoring invalid StyledText color", "color", color)
	}
	args = append(args, content)

	return vdom.Span(args...)
}

// StyledText returns the StyledText registration.
func StyledText() (*component.Registration, error) {
	return component.NewNativeComponent("StyledText", StyledTextMetadata, renderStyledText)
}
