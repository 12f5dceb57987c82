package bridge

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/vango-dev/vango-ext/internal/errors"
)

// ErrUnavailable reports that the backend or the action is not reachable.
var ErrUnavailable = stderrors.New("bridge: action unavailable")

// Caller invokes backend actions.
type Caller interface {
	Call(ctx context.Context, action string, args ...any) (any, error)
}

// Prober reports, without blocking, whether an action can currently be
// called.
type Prober interface {
	Available(action string) bool
}

// Available reports whether c can currently serve action. A nil caller is
// never available; callers that do not implement Prober are assumed to be.
func Available(c Caller, action string) bool {
	if c == nil {
		return false
	}
	if p, ok := c.(Prober); ok {
		return p.Available(action)
	}
	return true
}

// Invoke calls action on c. It never panics: a nil caller yields an
// unavailable error and a panicking caller is converted to an error.
func Invoke(ctx context.Context, c Caller, action string, args ...any) (result any, err error) {
	if c == nil {
		return nil, unavailable(action)
	}
	defer func() {
		if p := recover(); p != nil {
			slog.Default().Error("bridge call panic",
				"action", action,
				"panic", p,
				"stack", string(debug.Stack()),
			)
			result = nil
			err = errors.New("E241").WithDetailf("%s: panic: %v", action, p)
		}
	}()
	return c.Call(ctx, action, args...)
}

// Go calls action on its own goroutine and hands the outcome to done, which
// may be nil. The call is detached from ctx's cancellation but keeps its
// values, and is bounded by timeout when timeout is positive.
func Go(ctx context.Context, c Caller, action string, timeout time.Duration, done func(result any, err error), args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)

	go func() {
		callCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		result, err := Invoke(callCtx, c, action, args...)
		if done != nil {
			done(result, err)
		}
	}()
}

// IsUnavailable reports whether err means the action could not be reached.
func IsUnavailable(err error) bool {
	return stderrors.Is(err, ErrUnavailable)
}

func unavailable(action string) error {
	return errors.New("E240").WithDetail(action).Wrap(ErrUnavailable)
}

func actionFailed(action, msg string) error {
	return errors.New("E241").WithDetail(fmt.Sprintf("%s: %s", action, msg))
}
