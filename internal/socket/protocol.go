package socket

// Message represents a command sent to the running listbind instance
type Message struct {
	Command    string            `json:"command"`
	Text       string            `json:"text,omitempty"`
	Key        string            `json:"key,omitempty"`
	Section    string            `json:"section,omitempty"` // Default: first section
	Tags       []string          `json:"tags,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`

	// ResponseChan is set by the server for synchronous commands; the
	// handler must send exactly one response on it
	ResponseChan chan *Response `json:"-"`
}

// Response represents the response from the server
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Rows    []string `json:"rows,omitempty"`
}

// Command types
const (
	CommandAddRow    = "add_row"
	CommandRemoveRow = "remove_row"
	CommandList      = "list"
)

// synchronous reports whether the client waits for the handler's response.
// add_row is queued so a busy UI never blocks the sender.
func synchronous(command string) bool {
	return command == CommandList || command == CommandRemoveRow
}
