package domain

import "context"

// Completer is the shared language-model completion contract between layers.
// Implementations own transport and authentication; callers own prompt
// construction and response parsing.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
