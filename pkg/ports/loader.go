package ports

import (
	"context"

	"github.com/aretw0/twoway/pkg/domain"
)

// DefinitionLoader defines how the engine retrieves a machine definition.
// This allows the source (file, Redis, memory) to be decoupled from validation.
type DefinitionLoader interface {
	// Load returns the raw definition. It performs parsing only; validation is
	// the caller's job.
	Load(ctx context.Context) (domain.Definition, error)

	// Name returns a short label of the source, used in logs.
	Name() string
}
