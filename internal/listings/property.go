package listings

import (
	"encoding/json"
	"os"

	"github.com/spigell/property-alerts/internal/matching"
)

// Property is a listing as served by the CRM.
type Property struct {
	matching.Candidate

	URL      string `json:"url,omitempty"`
	ListedAt string `json:"listedAt,omitempty"`
}

type Properties struct {
	Items []*Property
}

func (p *Properties) Len() int {
	return len(p.Items)
}

func (p *Properties) FindByID(id string) *Property {
	for _, prop := range p.Items {
		if prop.ID == id {
			return prop
		}
	}
	return nil
}

func (p *Properties) IDs() []string {
	ids := make([]string, 0, len(p.Items))
	for _, prop := range p.Items {
		ids = append(ids, prop.ID)
	}
	return ids
}

// Candidates returns the listings in the shape consumed by the match engine.
func (p *Properties) Candidates() []matching.Candidate {
	out := make([]matching.Candidate, 0, len(p.Items))
	for _, prop := range p.Items {
		out = append(out, prop.Candidate)
	}
	return out
}

// Keep retains listings accepted by keep and returns IDs of the dropped ones.
// Order of the remaining listings is preserved.
func (p *Properties) Keep(keep func(*Property) bool) []string {
	var dropped []string
	kept := p.Items[:0]
	for _, prop := range p.Items {
		if keep(prop) {
			kept = append(kept, prop)
			continue
		}
		dropped = append(dropped, prop.ID)
	}
	clear(p.Items[len(kept):])
	p.Items = kept
	return dropped
}

func (p *Properties) DumpToTmpFile() (string, error) {
	return dumpToTmpFile("properties_*.json", p)
}

func dumpToTmpFile(pattern string, v any) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return file.Name(), nil
}
