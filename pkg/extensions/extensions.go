package extensions

import (
	"log/slog"
	"time"

	"github.com/vango-dev/vango-ext/pkg/bridge"
	"github.com/vango-dev/vango-ext/pkg/component"
)

// Namespace is the namespace the components are registered under.
const Namespace = "XMLUIExtensions"

// DefaultBridgeTimeout bounds bridge calls started by components.
const DefaultBridgeTimeout = 5 * time.Second

// Options configures the extension.
type Options struct {
	// Bridge reaches backend actions. Nil means no backend: components
	// that need one render their fallback instead.
	Bridge bridge.Caller

	// BridgeTimeout bounds each bridge call. Zero uses DefaultBridgeTimeout.
	BridgeTimeout time.Duration

	Logger *slog.Logger
}

// New builds the XMLUIExtensions namespace.
func New(opts Options) (*component.Extension, error) {
	if opts.BridgeTimeout <= 0 {
		opts.BridgeTimeout = DefaultBridgeTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	button, err := CustomButton()
	if err != nil {
		return nil, err
	}
	text, err := StyledText()
	if err != nil {
		return nil, err
	}
	messenger, err := Messenger(opts.Bridge, opts.BridgeTimeout)
	if err != nil {
		return nil, err
	}

	ext, err := component.NewExtension(Namespace, button, text, messenger)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("extension built", "namespace", Namespace, "components", ext.Names())
	return ext, nil
}
