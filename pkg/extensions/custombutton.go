package extensions

import (
	_ "embed"

	"github.com/vango-dev/vango-ext/pkg/component"
)

//go:embed CustomButton.xmlui
var customButtonSource string

// CustomButtonMetadata describes CustomButton.
var CustomButtonMetadata = component.MustMetadata(component.Record{
	Status:      component.StatusStable,
	Description: "A customizable button component with different color variants",
	Props: []component.PropSpec{
		{
			Name:        "label",
			Type:        component.TypeString,
			Description: "The text to display on the button",
			Default:     "Button",
		},
		{
			Name:        "color",
			Type:        component.TypeEnum,
			Description: "The color variant of the button",
			Values:      []string{"primary", "secondary", "success", "default"},
			Default:     "default",
		},
		{
			Name:        "onClick",
			Type:        component.TypeFunction,
			Description: "Callback function when button is clicked",
			Optional:    true,
		},
	},
})

// CustomButtonSource returns the markup CustomButton renders.
func CustomButtonSource() string { return customButtonSource }

// CustomButton returns the CustomButton registration.
func CustomButton() (*component.Registration, error) {
	return component.NewMarkupComponent(CustomButtonMetadata, customButtonSource)
}
