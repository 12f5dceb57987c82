package bridge

import (
	"context"
	"fmt"
	"sort"
)

// Action is a backend action implementation.
type Action func(ctx context.Context, args []any) (any, error)

// Funcs is an in-process Caller backed by a map of actions.
type Funcs map[string]Action

// Call implements Caller.
func (f Funcs) Call(ctx context.Context, action string, args ...any) (any, error) {
	fn, ok := f[action]
	if !ok || fn == nil {
		return nil, unavailable(action)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fn(ctx, args)
}

// Available implements Prober.
func (f Funcs) Available(action string) bool {
	fn, ok := f[action]
	return ok && fn != nil
}

// Actions returns the action names, sorted.
func (f Funcs) Actions() []string {
	names := make([]string, 0, len(f))
	for name, fn := range f {
		if fn != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// StringAction adapts a function of one string argument.
func StringAction(fn func(ctx context.Context, s string) (string, error)) Action {
	return func(ctx context.Context, args []any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		s, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("expected string argument, got %T", args[0])
		}
		return fn(ctx, s)
	}
}
