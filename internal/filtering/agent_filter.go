package filtering

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/property-alerts/internal/listings"
)

type agentFilter struct {
	toggle
	agents []string
}

// NewAgent creates a filter that keeps listings owned by one of the agents.
func NewAgent(agents []string) Filter {
	return &agentFilter{agents: trimmed(agents)}
}

func (f *agentFilter) Name() string { return "agent" }

func (f *agentFilter) Validate() error {
	if len(f.agents) == 0 {
		return fmt.Errorf("at least one agent is required")
	}
	return nil
}

func (f *agentFilter) Apply(_ context.Context, p *listings.Properties) (*listings.Properties, Step, error) {
	p, step, _ := keep(p, func(prop *listings.Property) bool {
		return containsFold(f.agents, prop.Agent)
	})
	return p, step, nil
}

func (f *agentFilter) Status() Status {
	return f.status(f.Name(), map[string]string{"agents": strings.Join(f.agents, ",")})
}
