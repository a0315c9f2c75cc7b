package listings

import (
	"fmt"

	"github.com/spigell/property-alerts/internal/matching"
)

type Alerts struct {
	Items []*matching.Alert
}

func (a *Alerts) Len() int {
	return len(a.Items)
}

// Active returns copies of the active alerts in API order.
func (a *Alerts) Active() []matching.Alert {
	out := make([]matching.Alert, 0, len(a.Items))
	for _, alert := range a.Items {
		if alert.Active {
			out = append(out, *alert)
		}
	}
	return out
}

// All returns copies of every alert in API order.
func (a *Alerts) All() []matching.Alert {
	out := make([]matching.Alert, 0, len(a.Items))
	for _, alert := range a.Items {
		out = append(out, *alert)
	}
	return out
}

// Triggered is the outcome of one evaluation pass.
type Triggered struct {
	Items []matching.TriggeredAlert
}

func (t *Triggered) Len() int {
	return len(t.Items)
}

// PropertyCount returns the number of matches over all triggered alerts.
func (t *Triggered) PropertyCount() int {
	total := 0
	for _, item := range t.Items {
		total += item.Count
	}
	return total
}

// ReportByAlert groups matched properties under "<alert name> (<alert id>)".
func (t *Triggered) ReportByAlert() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range t.Items {
		key := fmt.Sprintf("%s (%s)", item.Alert.Name, item.Alert.ID)
		for _, m := range item.Matches {
			score := "n/a"
			if percent, ok := m.Percent(); ok {
				score = fmt.Sprintf("%d%%", percent)
			}
			report[key] = append(report[key], map[string]string{
				"id":       m.Candidate.ID,
				"name":     m.Candidate.Name,
				"location": m.Candidate.Location,
				"score":    score,
				"criteria": matching.Summarize(item.Alert.Criteria),
			})
		}
	}
	return report
}

func (t *Triggered) DumpToTmpFile() (string, error) {
	return dumpToTmpFile("triggered_alerts_*.json", t.Items)
}
