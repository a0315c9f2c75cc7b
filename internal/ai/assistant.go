// Package ai holds optional AI helpers layered on top of alert matching.
package ai

import (
	"context"

	"github.com/spigell/property-alerts/internal/matching"
)

// Digester writes a short human-readable digest of a triggered alert.
type Digester interface {
	Digest(ctx context.Context, t *matching.TriggeredAlert) (string, error)
}
