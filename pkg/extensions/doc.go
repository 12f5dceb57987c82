// Package extensions provides the XMLUIExtensions component namespace.
//
// The namespace contains three components:
//   - CustomButton: a markup component with color variants
//   - StyledText: a native span with text variants and sizes
//   - Messenger: a native button that greets through the backend bridge
//
// Load it into a host engine once at startup:
//
//	ext, err := extensions.New(extensions.Options{Bridge: client})
//	if err != nil {
//	    return err
//	}
//	if err := engine.Load(ext); err != nil {
//	    return err
//	}
//
// Markup can then reference the components by name, qualified or not:
//
//	<CustomButton label="Save" color="success"/>
//	<XMLUIExtensions.StyledText text="Hi" variant="bold"/>
package extensions
