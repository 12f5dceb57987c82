// Package notice provides user-visible feedback for extension components.
//
// Components may not abort the surrounding render when something outside
// their control fails (an unavailable backend action, for instance). They
// report it through two channels instead:
//
//   - Fallback renders an inline notice node in place of, or next to, the
//     content that could not be produced.
//   - Show dispatches an alert event through the host's Emitter, the same
//     custom-event mechanism the host uses for toasts.
//
// # Client-Side Handler
//
//	window.addEventListener("vango:notice", (e) => {
//	    const { level, message } = e.detail;
//	    showToast(level, message);
//	});
package notice
