// Package markup evaluates component markup into vdom trees.
//
// Markup is XML. Lower-case tags are HTML elements; tags starting with an
// upper-case letter, or qualified as Namespace.Name, are components and are
// rendered through a Resolver. Attribute values and text are HCL templates:
//
//	<Component name="CustomButton">
//	  <button class="custom-button custom-button--${color}" onclick="${onClick}">
//	    ${upper(label)}
//	  </button>
//	</Component>
//
// Template rules:
//
//   - Properties are in scope as variables. A property referenced but not
//     set evaluates to null.
//   - An attribute that is a single interpolation keeps the value's type,
//     and is omitted when the value is null.
//   - on* attributes bind function properties by reference.
//   - A when attribute drops its element unless it evaluates to true.
//   - The cty standard functions upper, lower, title, trimspace, coalesce,
//     format, join, concat, length, replace, min and max are available.
//
// Compiled templates are immutable and may be executed concurrently.
package markup
