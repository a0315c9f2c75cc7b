package filtering

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/property-alerts/internal/listings"
)

type searchFilter struct {
	toggle
	query string
}

// NewSearch creates a filter that keeps listings whose name, location or
// description contains the query, ignoring case.
func NewSearch(query string) Filter {
	return &searchFilter{query: strings.ToLower(strings.TrimSpace(query))}
}

func (f *searchFilter) Name() string { return "search" }

func (f *searchFilter) Validate() error {
	if f.query == "" {
		return fmt.Errorf("search query is empty")
	}
	return nil
}

func (f *searchFilter) Apply(_ context.Context, p *listings.Properties) (*listings.Properties, Step, error) {
	p, step, _ := keep(p, func(prop *listings.Property) bool {
		for _, field := range []string{prop.Name, prop.Location, prop.Description} {
			if strings.Contains(strings.ToLower(field), f.query) {
				return true
			}
		}
		return false
	})
	return p, step, nil
}

func (f *searchFilter) Status() Status {
	details := map[string]string{}
	if f.query != "" {
		details["query"] = f.query
	}
	return f.status(f.Name(), details)
}
