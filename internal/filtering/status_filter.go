package filtering

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/property-alerts/internal/listings"
)

type statusFilter struct {
	toggle
	statuses []string
}

// NewStatus creates a filter that keeps listings in one of the statuses.
func NewStatus(statuses []string) Filter {
	return &statusFilter{statuses: trimmed(statuses)}
}

func (f *statusFilter) Name() string { return "status" }

func (f *statusFilter) Validate() error {
	if len(f.statuses) == 0 {
		return fmt.Errorf("at least one status is required")
	}
	return nil
}

func (f *statusFilter) Apply(_ context.Context, p *listings.Properties) (*listings.Properties, Step, error) {
	p, step, _ := keep(p, func(prop *listings.Property) bool {
		return containsFold(f.statuses, prop.Status)
	})
	return p, step, nil
}

func (f *statusFilter) Status() Status {
	return f.status(f.Name(), map[string]string{"statuses": strings.Join(f.statuses, ",")})
}
