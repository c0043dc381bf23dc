package out

import (
	"context"

	"focuscraft/internal/modules/motivation/domain"
)

// Provider produces a short motivational line for the current session
// state. Implementations may be slow or fail; callers are expected to
// mask both with domain.FallbackMessage.
type Provider interface {
	Generate(ctx context.Context, req domain.Request) (domain.Message, error)
}
