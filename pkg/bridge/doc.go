// Package bridge connects components to actions exposed by a backend
// process.
//
// A backend exposes named actions (Greet, for instance). Components reach
// them through a Caller. Callers may live in-process (Funcs) or in another
// process reached over WebSocket (Client talking to a Server).
//
// Components must never block a render on the backend. The pattern is:
//
//	if !bridge.Available(caller, "Greet") {
//	    return notice.Fallback(notice.LevelWarning, "Greeting service unavailable")
//	}
//	onClick := func() {
//	    bridge.Go(rc.Context(), caller, "Greet", 5*time.Second, func(res any, err error) {
//	        ...
//	    }, "World")
//	}
//
// Available is a non-blocking check. Go runs the call on its own
// goroutine, detached from the render's cancellation.
//
// # Wire Protocol
//
// The WebSocket transport exchanges JSON text frames. On connect the
// server sends a hello frame listing its actions:
//
//	{"type":"hello","actions":["Greet"]}
//
// Calls and results are correlated by id:
//
//	{"type":"call","id":"8f0c…","action":"Greet","args":["World"]}
//	{"type":"result","id":"8f0c…","result":"Hello World, It's show time!"}
//	{"type":"result","id":"8f0c…","error":"…","code":"E241"}
package bridge
