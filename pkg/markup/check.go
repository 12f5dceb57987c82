package markup

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vango-dev/vango-ext/internal/errors"
	"github.com/vango-dev/vango-ext/pkg/component"
)

// BindingReport is the result of comparing a markup component against its
// metadata.
type BindingReport struct {
	Component string

	// Undeclared lists variables the markup references that the metadata
	// does not declare. They always evaluate to null.
	Undeclared []string

	// Unused lists declared properties the markup never references.
	Unused []string
}

// OK reports whether the markup and metadata agree.
func (r *BindingReport) OK() bool {
	return len(r.Undeclared) == 0 && len(r.Unused) == 0
}

// Err returns nil when the report is clean, or an error describing every
// mismatch.
func (r *BindingReport) Err() error {
	if r.OK() {
		return nil
	}
	var parts []string
	if len(r.Undeclared) > 0 {
		parts = append(parts, fmt.Sprintf("undeclared: %s", strings.Join(r.Undeclared, ", ")))
	}
	if len(r.Unused) > 0 {
		parts = append(parts, fmt.Sprintf("unused: %s", strings.Join(r.Unused, ", ")))
	}
	return errors.New("E143").WithDetailf("%s: %s", r.Component, strings.Join(parts, "; "))
}

// CheckBindings compares the variables referenced by a markup component
// with the properties its metadata declares.
func CheckBindings(source string, md *component.Metadata) (*BindingReport, error) {
	t, err := Compile(source)
	if err != nil {
		return nil, err
	}
	return t.CheckBindings(md), nil
}

// CheckBindings compares the template's variables with md.
func (t *Template) CheckBindings(md *component.Metadata) *BindingReport {
	report := &BindingReport{Component: t.name}

	for _, name := range t.vars {
		if _, ok := md.Prop(name); !ok {
			report.Undeclared = append(report.Undeclared, name)
		}
	}
	for _, name := range md.PropNames() {
		if !slices.Contains(t.vars, name) {
			report.Unused = append(report.Unused, name)
		}
	}
	return report
}
