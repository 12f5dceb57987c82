package bridge

// Frame types.
const (
	frameHello  = "hello"
	frameCall   = "call"
	frameResult = "result"
)

// frame is the single JSON envelope used in both directions.
type frame struct {
	Type    string   `json:"type"`
	ID      string   `json:"id,omitempty"`
	Action  string   `json:"action,omitempty"`
	Args    []any    `json:"args,omitempty"`
	Actions []string `json:"actions,omitempty"`
	Result  any      `json:"result,omitempty"`
	Error   string   `json:"error,omitempty"`
	Code    string   `json:"code,omitempty"`
}
