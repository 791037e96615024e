// Package chat is the boundary between the bot core and a chat transport.
package chat

import "context"

// Action is an inline button. Payload is handed back verbatim when the
// recipient activates it.
type Action struct {
	Label   string
	Payload string
}

type Message struct {
	Text string
	// Keyboard holds rows of menu labels. Activating one is equivalent to
	// typing the label.
	Keyboard [][]string
	// Actions holds rows of inline buttons.
	Actions [][]Action
	// Image is an optional PNG attachment.
	Image []byte
}

type Sender interface {
	Send(ctx context.Context, to int64, msg Message) error
}

// Text builds a plain message.
func Text(s string) Message {
	return Message{Text: s}
}
