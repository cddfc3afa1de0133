package model

import "context"

// Message is an outgoing email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Notifier delivers messages to users.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
