// Package delivery defines the contract every transport frontend satisfies.
package delivery

import "context"

// Delivery is a running transport (the HTTP server). Serve blocks until the
// server stops; shutdown happens via the fx lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
