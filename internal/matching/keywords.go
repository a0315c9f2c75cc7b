package matching

import "strings"

// keywordScore counts how many keywords occur in the searchable text of the candidate.
func keywordScore(c *Candidate, keywords []string) (found []string, requested int) {
	text := searchableText(c)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		requested++
		if strings.Contains(text, kw) {
			found = append(found, kw)
		}
	}
	return found, requested
}

func searchableText(c *Candidate) string {
	parts := make([]string, 0, 2+len(c.Features)+len(c.Amenities))
	parts = append(parts, c.Name, c.Description)
	parts = append(parts, c.Features...)
	parts = append(parts, c.Amenities...)
	return strings.ToLower(strings.Join(parts, " "))
}
