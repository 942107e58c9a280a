package contracts

const (
	// MessageTypeCopyToClipboard asks the host to put a command on the clipboard.
	MessageTypeCopyToClipboard = "copyToClipboard"
)

// IncomingMessage is the minimal envelope used to route panel messages.
type IncomingMessage struct {
	Command string `json:"command"`
}

// CopyToClipboardMessage is the wire shape the panel page sends once per Copy
// click. The host decodes text leniently so a missing or non-string text is
// ignored rather than copied as "".
type CopyToClipboardMessage struct {
	Command string `json:"command"`
	Text    string `json:"text"`
}
