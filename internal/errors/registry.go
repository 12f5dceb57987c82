package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	// Help is a generic explanation shown by Format when the error carries
	// no specific detail.
	Help string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Help:     "The configuration file is malformed or could not be read.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Missing required configuration",
		Help:     "A required configuration value is not set.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Help:     "The configured port must be between 1 and 65535.",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E141": {
		Category: CategoryCLI,
		Message:  "Invalid property argument",
		Help:     "Properties are passed as name=value pairs.",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Catalog publish failed",
		Help:     "The component catalog could not be uploaded.",
	},
	"E143": {
		Category: CategoryCLI,
		Message:  "Binding check failed",
		Help:     "A markup component references properties its metadata does not declare, or declares properties it never uses.",
	},

	// ============================================
	// Descriptor Errors (E200-E209)
	// ============================================

	"E201": {
		Category: CategoryDescriptor,
		Message:  "Invalid property name",
		Help:     "Property names must be identifiers: a letter or underscore followed by letters, digits or underscores.",
	},
	"E202": {
		Category: CategoryDescriptor,
		Message:  "Duplicate property name",
		Help:     "Each property may be declared only once per component.",
	},
	"E203": {
		Category: CategoryDescriptor,
		Message:  "Unknown property type",
		Help:     "Supported types are string, number, boolean, function, enum and any.",
	},
	"E204": {
		Category: CategoryDescriptor,
		Message:  "Invalid default value",
		Help:     "A property default must match the declared property type.",
	},
	"E205": {
		Category: CategoryDescriptor,
		Message:  "Enum property without values",
		Help:     "Enum properties must list at least one allowed value.",
	},
	"E206": {
		Category: CategoryDescriptor,
		Message:  "Malformed metadata record",
		Help:     "The metadata document could not be decoded.",
	},
	"E207": {
		Category: CategoryDescriptor,
		Message:  "Unknown component status",
		Help:     "Supported statuses are draft, experimental, stable, deprecated and internal.",
	},

	// ============================================
	// Render Errors (E210-E229)
	// ============================================

	"E210": {
		Category: CategoryRender,
		Message:  "Undeclared property",
		Help:     "The component was given a property its metadata does not declare.",
	},
	"E211": {
		Category: CategoryRender,
		Message:  "Property type mismatch",
		Help:     "The property value does not match the declared type.",
	},
	"E212": {
		Category: CategoryRender,
		Message:  "Property value not allowed",
		Help:     "Enum properties only accept one of their declared values.",
	},
	"E213": {
		Category: CategoryRender,
		Message:  "Missing required property",
		Help:     "The property is neither optional nor defaulted, so every use must set it.",
	},
	"E220": {
		Category: CategoryRender,
		Message:  "Render function panicked",
		Help:     "A native component render function panicked; the panic was contained to this invocation.",
	},
	"E221": {
		Category: CategoryRender,
		Message:  "Markup parse error",
		Help:     "The markup fragment is not well-formed.",
	},
	"E222": {
		Category: CategoryRender,
		Message:  "Markup evaluation error",
		Help:     "A ${} binding in the markup could not be evaluated.",
	},
	"E223": {
		Category: CategoryDescriptor,
		Message:  "Invalid markup component",
		Help:     `Markup components must have a single <Component name="Name"> root element.`,
	},

	// ============================================
	// Registry Errors (E230-E239)
	// ============================================

	"E230": {
		Category: CategoryRegistry,
		Message:  "Duplicate component name",
		Help:     "Component names must be unique within a namespace.",
	},
	"E231": {
		Category: CategoryRegistry,
		Message:  "Invalid extension",
		Help:     "Namespaces and component names must be identifiers; component names start with an upper-case letter.",
	},
	"E232": {
		Category: CategoryRegistry,
		Message:  "Component conflict",
		Help:     "Another loaded extension already registered this namespace and component name.",
	},
	"E233": {
		Category: CategoryRegistry,
		Message:  "Ambiguous component name",
		Help:     "Several namespaces provide this component; qualify the tag as Namespace.Name.",
	},
	"E234": {
		Category: CategoryRegistry,
		Message:  "Unknown component",
		Help:     "No loaded extension provides this component.",
	},

	// ============================================
	// Bridge Errors (E240-E249)
	// ============================================

	"E240": {
		Category: CategoryBridge,
		Message:  "Bridge action unavailable",
		Help:     "The backend process is not connected or does not expose the action.",
	},
	"E241": {
		Category: CategoryBridge,
		Message:  "Bridge action failed",
		Help:     "The backend action returned an error.",
	},
	"E242": {
		Category: CategoryBridge,
		Message:  "Bridge protocol error",
		Help:     "A bridge message could not be encoded or decoded.",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
