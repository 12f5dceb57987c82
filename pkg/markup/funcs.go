package markup

import (
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

var functions = map[string]function.Function{
	"upper":     stdlib.UpperFunc,
	"lower":     stdlib.LowerFunc,
	"title":     stdlib.TitleFunc,
	"trimspace": stdlib.TrimSpaceFunc,
	"coalesce":  stdlib.CoalesceFunc,
	"format":    stdlib.FormatFunc,
	"join":      stdlib.JoinFunc,
	"concat":    stdlib.ConcatFunc,
	"length":    stdlib.LengthFunc,
	"replace":   stdlib.ReplaceFunc,
	"min":       stdlib.MinFunc,
	"max":       stdlib.MaxFunc,
}

// Functions returns the names of the functions available to templates.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	return names
}
