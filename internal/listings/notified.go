package listings

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/spigell/property-alerts/internal/matching"
)

const (
	NotifiedActorUser = "user"
	NotifiedActorAuto = "auto"
)

// NotifiedProperties is the content of the notified file: listings that were
// already reported for an alert and should not be reported again.
type NotifiedProperties struct {
	Items []*NotifiedProperty
}

type NotifiedProperty struct {
	PropertyID string    `json:"property_id"`
	AlertID    string    `json:"alert_id"`
	URL        string    `json:"url,omitempty"`
	NotifiedAt time.Time `json:"notified_at"`
	Actor      string    `json:"actor,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

// ToNotified converts triggered alerts into notified entries.
func (t *Triggered) ToNotified(props *Properties, actor string) *NotifiedProperties {
	notified := &NotifiedProperties{}
	for _, item := range t.Items {
		for _, m := range item.Matches {
			entry := &NotifiedProperty{
				PropertyID: m.Candidate.ID,
				AlertID:    item.Alert.ID,
				NotifiedAt: item.EvaluatedAt,
				Actor:      actor,
				Reason:     matching.Summarize(item.Alert.Criteria),
			}
			if props != nil {
				if prop := props.FindByID(m.Candidate.ID); prop != nil {
					entry.URL = prop.URL
				}
			}
			notified.Items = append(notified.Items, entry)
		}
	}
	return notified
}

// GetNotifiedFromFile reads the notified file. A missing or empty file yields an empty list.
func GetNotifiedFromFile(path string) (*NotifiedProperties, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &NotifiedProperties{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &NotifiedProperties{}, nil
	}

	var notified NotifiedProperties
	if err := json.NewDecoder(file).Decode(&notified); err != nil {
		return nil, err
	}
	return &notified, nil
}

func (n *NotifiedProperties) Append(s *NotifiedProperties) {
	n.Items = append(n.Items, s.Items...)
}

func (n *NotifiedProperties) Len() int {
	return len(n.Items)
}

// Has reports whether the property was already reported for the alert.
func (n *NotifiedProperties) Has(alertID, propertyID string) bool {
	for _, item := range n.Items {
		if item.AlertID == alertID && item.PropertyID == propertyID {
			return true
		}
	}
	return false
}

type notifiedKey struct {
	alertID    string
	propertyID string
}

// ExcludeNotified removes matches already reported for the same alert and drops
// alerts left without matches. It returns the number of removed matches.
func (t *Triggered) ExcludeNotified(n *NotifiedProperties) int {
	if n == nil || n.Len() == 0 {
		return 0
	}

	seen := make(map[notifiedKey]struct{}, len(n.Items))
	for _, item := range n.Items {
		seen[notifiedKey{item.AlertID, item.PropertyID}] = struct{}{}
	}

	removed := 0
	items := t.Items[:0]
	for _, item := range t.Items {
		matches := make([]matching.MatchResult, 0, len(item.Matches))
		for _, m := range item.Matches {
			if _, ok := seen[notifiedKey{item.Alert.ID, m.Candidate.ID}]; ok {
				removed++
				continue
			}
			matches = append(matches, m)
		}
		if len(matches) == 0 {
			continue
		}
		item.Matches = matches
		item.Count = len(matches)
		items = append(items, item)
	}
	t.Items = items

	return removed
}

func (n *NotifiedProperties) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(n)
}
