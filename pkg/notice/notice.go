package notice

import (
	"log/slog"

	"github.com/vango-dev/vango-ext/pkg/vdom"
)

// EventName is the event name dispatched for alerts.
const EventName = "vango:notice"

// Level represents the notice severity.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Emitter dispatches a custom event to the client.
type Emitter interface {
	Emit(event string, detail any)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(event string, detail any)

// Emit implements Emitter.
func (f EmitterFunc) Emit(event string, detail any) { f(event, detail) }

// Show dispatches an alert to the client.
//
// The client receives a CustomEvent with:
//   - event.type = "vango:notice"
//   - event.detail = { level: "info|success|warning|error", message: "..." }
func Show(em Emitter, level Level, message string) {
	if em == nil {
		return
	}
	em.Emit(EventName, map[string]any{
		"level":   string(level),
		"message": message,
	})
}

// LogEmitter writes alerts to a logger. Hosts without a client connection
// (the CLI, tests) use it so alerts are never silently dropped.
func LogEmitter(logger *slog.Logger) Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return EmitterFunc(func(event string, detail any) {
		logger.Info("component alert", "event", event, "detail", detail)
	})
}

// Fallback renders an inline notice. The node is announced politely to
// assistive technology and carries the level as a modifier class.
func Fallback(level Level, message string) *vdom.VNode {
	return vdom.Div(
		vdom.Role("status"),
		vdom.AriaLive("polite"),
		vdom.Class("ext-notice", "ext-notice--"+string(level)),
		vdom.Data("notice-level", string(level)),
		vdom.Text(message),
	)
}

// IsFallback reports whether node was produced by Fallback.
func IsFallback(node *vdom.VNode) bool {
	return node != nil && node.Kind == vdom.KindElement && node.Attr("data-notice-level") != ""
}
