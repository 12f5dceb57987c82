// Package errors provides structured, actionable error messages for the
// extension runtime.
//
// Every failure that crosses a package boundary is an *ExtError carrying a
// registered code (e.g. "E213"), a category, a short message and optional
// detail, suggestion and source location.
//
// # Error Categories
//
//   - descriptor: malformed component metadata, detected at load time
//   - render: prop resolution and render invocation failures
//   - registry: component name conflicts and lookups
//   - bridge: external backend action failures
//   - config: configuration file problems
//   - cli: command line usage errors
//
// # Usage
//
//	err := errors.New("E202").
//	    WithDetail(`prop "label" is declared twice`).
//	    WithSuggestion("Remove one of the declarations")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E202: Duplicate property name
//	//
//	//   prop "label" is declared twice
//	//
//	//   Hint: Remove one of the declarations
package errors
