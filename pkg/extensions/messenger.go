package extensions

import (
	"fmt"
	"time"

	"github.com/vango-dev/vango-ext/pkg/bridge"
	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/notice"
	"github.com/vango-dev/vango-ext/pkg/vdom"
)

// GreetAction is the backend action Messenger calls.
const GreetAction = "Greet"

// messengerGreetee is the name Messenger greets the backend with.
const messengerGreetee = "Messenger"

// MessengerMetadata describes Messenger.
var MessengerMetadata = component.MustMetadata(component.Record{
	Status:      component.StatusStable,
	Description: "A custom messenger button",
})

// Messenger returns the Messenger registration. Clicking the button alerts
// and greets the backend through caller; when the Greet action is not
// available a fallback notice is rendered after the button.
func Messenger(caller bridge.Caller, timeout time.Duration) (*component.Registration, error) {
	return component.NewNativeComponent("Messenger", MessengerMetadata, func(rc *component.RenderContext) *vdom.VNode {
		onClick := func() {
			rc.Alert(notice.LevelInfo, "Messenger Button Clicked!")
			bridge.Go(rc.Context(), caller, GreetAction, timeout, func(result any, err error) {
				if err != nil {
					rc.Logger().Warn("greet failed", "error", err)
					rc.Alert(notice.LevelError, "Greeting failed")
					return
				}
				rc.Alert(notice.LevelSuccess, fmt.Sprint(result))
			}, messengerGreetee)
		}

		button := vdom.Button(vdom.Type("button"), vdom.OnClick(onClick), "Messenger Button")

		if !bridge.Available(caller, GreetAction) {
			rc.Logger().Debug("bridge action unavailable", "action", GreetAction)
			return vdom.Fragment(button, notice.Fallback(notice.LevelWarning, "Messenger backend unavailable"))
		}
		return button
	})
}
