// Package backend implements the actions served to components over the
// bridge.
package backend

import (
	"context"
	"fmt"

	"github.com/vango-dev/vango-ext/pkg/bridge"
)

// Greet returns a greeting for name.
func Greet(name string) string {
	return fmt.Sprintf("Hello %s, It's show time!", name)
}

// Funcs returns the backend actions keyed by name.
func Funcs() bridge.Funcs {
	return bridge.Funcs{
		"Greet": bridge.StringAction(func(ctx context.Context, name string) (string, error) {
			return Greet(name), nil
		}),
	}
}
