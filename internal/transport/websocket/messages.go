package websocket

type ClientMessage struct {
	Type   string `json:"type"`
	Column *int   `json:"column,omitempty"`
}

type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

const (
	MsgMove   = "move"
	MsgResume = "resume"
	MsgState  = "state"
	MsgError  = "error"
)
