// Package backend provides completion invokers for the local runtime and
// the remote vendors. All invokers satisfy the same interface so the
// router can treat a selected model uniformly.
package backend

import "context"

// Invoker executes a single-turn completion against one backend.
type Invoker interface {
	// Complete sends prompt to the named model and returns the response
	// text. Failures are wrapped in *models.CompletionError.
	Complete(ctx context.Context, model, prompt string) (string, error)

	// Name identifies the backend for logging.
	Name() string
}
