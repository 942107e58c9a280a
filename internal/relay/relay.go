// Package relay carries panel messages to the host clipboard and notification APIs.
package relay

import (
	"context"
	"encoding/json"

	"git-cheatsheet/internal/contracts"

	"go.uber.org/zap"
)

// CopiedMessage is shown after a successful clipboard write.
const CopiedMessage = "Copied to clipboard!"

// Clipboard writes text to a clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Notifier shows an informational message to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Result is the outcome of handling one message.
type Result int

const (
	// Ignored means the message was not a recognized request.
	Ignored Result = iota
	// Copied means the clipboard was written.
	Copied
	// Failed means the clipboard write failed.
	Failed
)

func (r Result) String() string {
	switch r {
	case Ignored:
		return "ignored"
	case Copied:
		return "copied"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Relay handles messages from cheatsheet panels. It keeps no state between
// messages and may be shared by any number of panels.
type Relay struct {
	clipboard Clipboard
	notifier  Notifier
	logger    *zap.Logger
}

// New returns a relay writing to clipboard and confirming through notifier.
func New(clipboard Clipboard, notifier Notifier, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		clipboard: clipboard,
		notifier:  notifier,
		logger:    logger,
	}
}

// Handle processes one raw panel message. Clipboard and notification
// failures are logged and never returned.
func (r *Relay) Handle(ctx context.Context, raw []byte) Result {
	var envelope contracts.IncomingMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		r.logger.Debug("dropping malformed panel message", zap.Error(err))
		return Ignored
	}

	switch envelope.Command {
	case contracts.MessageTypeCopyToClipboard:
		return r.copyToClipboard(ctx, raw)
	default:
		r.logger.Debug("ignoring panel message", zap.String("command", envelope.Command))
		return Ignored
	}
}

func (r *Relay) copyToClipboard(ctx context.Context, raw []byte) Result {
	// Text is a pointer so a missing field is not mistaken for "".
	var msg struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Text == nil {
		r.logger.Debug("dropping copy request without text", zap.Error(err))
		return Ignored
	}

	if err := r.clipboard.WriteText(ctx, *msg.Text); err != nil {
		r.logger.Warn("clipboard write failed", zap.Error(err))
		return Failed
	}

	if err := r.notifier.Notify(ctx, CopiedMessage); err != nil {
		r.logger.Warn("notify failed", zap.Error(err))
	}

	r.logger.Debug("copied command", zap.String("text", *msg.Text))
	return Copied
}
