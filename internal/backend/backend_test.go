package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGreet(t *testing.T) {
	require.Equal(t, "Hello World, It's show time!", Greet("World"))
}

func TestFuncs(t *testing.T) {
	f := Funcs()
	require.Equal(t, []string{"Greet"}, f.Actions())

	res, err := f.Call(context.Background(), "Greet", "Ada")
	require.NoError(t, err)
	require.Equal(t, "Hello Ada, It's show time!", res)
}
