package filtering

import "strings"

const emptyViewReason = "not set in saved view"

// SavedView is the operator's working set of listings.
type SavedView struct {
	Statuses []string `mapstructure:"statuses"`
	Agents   []string `mapstructure:"agents"`
	Search   string   `mapstructure:"search"`
}

// NewSavedView builds the ordered filter steps for the view.
// Filters without a value in the view are disabled with a reason.
func NewSavedView(view SavedView) []Filter {
	status := NewStatus(view.Statuses)
	if len(trimmed(view.Statuses)) == 0 {
		status.Disable(emptyViewReason)
	}

	agent := NewAgent(view.Agents)
	if len(trimmed(view.Agents)) == 0 {
		agent.Disable(emptyViewReason)
	}

	search := NewSearch(view.Search)
	if strings.TrimSpace(view.Search) == "" {
		search.Disable(emptyViewReason)
	}

	return []Filter{status, agent, search}
}

func trimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func containsFold(set []string, value string) bool {
	for _, s := range set {
		if strings.EqualFold(s, strings.TrimSpace(value)) {
			return true
		}
	}
	return false
}
