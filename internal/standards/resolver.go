package standards

import (
	"context"
	"log/slog"

	"github.com/hyperengineering/fastplan/internal/types"
)

// CategoryGenerator synthesizes standards for subjects and grades the
// local table does not cover. Implemented by the generation client.
type CategoryGenerator interface {
	GenerateStandards(ctx context.Context, grade, subject string) ([]types.StandardCategory, error)
}

// Resolver resolves (grade, subject) to curriculum standard options,
// preferring the static local table and falling back to a generator.
type Resolver struct {
	generator CategoryGenerator
}

// NewResolver creates a Resolver. The generator may be nil, in which
// case unmatched lookups resolve to an empty list.
func NewResolver(generator CategoryGenerator) *Resolver {
	return &Resolver{generator: generator}
}

// Resolve returns the standard categories for the given raw grade and
// subject. Local table hits are authoritative and free; they are never
// bypassed. Generator failures degrade to an empty list rather than an
// error so a failed lookup never blocks manual standard entry.
func (r *Resolver) Resolve(ctx context.Context, grade, subject string) []types.StandardCategory {
	if local := LocalLookup(grade, subject); len(local) > 0 {
		return local
	}

	if r.generator == nil {
		return []types.StandardCategory{}
	}

	cats, err := r.generator.GenerateStandards(ctx, grade, subject)
	if err != nil {
		slog.Warn("standards generation failed",
			"grade", grade,
			"subject", subject,
			"error", err,
		)
		return []types.StandardCategory{}
	}
	if cats == nil {
		cats = []types.StandardCategory{}
	}
	return cats
}
