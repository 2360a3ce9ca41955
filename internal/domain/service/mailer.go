package service

import "context"

// Mail is one outbound message.
type Mail struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers mail out-of-band. Failure must surface to the caller: the
// reset flow rolls its ticket back when delivery fails.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}
