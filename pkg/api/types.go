package api

// Actions understood by the background side.
const (
	ActionTranslate = "translate"
	ActionRender    = "render"
	ActionStatus    = "status"
)

// Request is the message the page side sends to the background side.
type Request struct {
	Action   string `json:"action"`
	Text     string `json:"text,omitempty"`
	Language string `json:"language,omitempty"`
	NoCache  bool   `json:"no_cache,omitempty"`
}

// Response carries either ready-to-render text or a notice (see IsNotice).
// HTML is filled for successful translations and renders.
type Response struct {
	Result string `json:"result"`
	HTML   string `json:"html,omitempty"`
	Cached bool   `json:"cached,omitempty"`
}
