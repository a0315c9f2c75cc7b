package listings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/property-alerts/internal/matching"
)

func TestGetNotifiedFromMissingOrEmptyFile(t *testing.T) {
	dir := t.TempDir()

	notified, err := GetNotifiedFromFile(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Zero(t, notified.Len())

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	notified, err = GetNotifiedFromFile(empty)
	require.NoError(t, err)
	assert.Zero(t, notified.Len())
}

func TestGetNotifiedFromBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := GetNotifiedFromFile(path)
	require.Error(t, err)
}

func TestNotifiedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notified.json")
	at := time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)

	props := testProperties("p1", "p2")
	props.Items[0].URL = "https://crm.test/p/1"

	triggered := &Triggered{Items: []matching.TriggeredAlert{
		{
			Alert:       matching.Alert{ID: "a1", Name: "Everything"},
			Matches:     []matching.MatchResult{{Candidate: props.Items[0].Candidate}, {Candidate: props.Items[1].Candidate}},
			EvaluatedAt: at,
			Count:       2,
		},
		{
			Alert:       matching.Alert{ID: "a2", Name: "Again"},
			Matches:     []matching.MatchResult{{Candidate: props.Items[0].Candidate}},
			EvaluatedAt: at,
			Count:       1,
		},
	}}

	notified := triggered.ToNotified(props, NotifiedActorAuto)
	require.Equal(t, 3, notified.Len())
	assert.Equal(t, "https://crm.test/p/1", notified.Items[0].URL)
	assert.Equal(t, "a2", notified.Items[2].AlertID)
	assert.Equal(t, NotifiedActorAuto, notified.Items[2].Actor)
	assert.Equal(t, "Any property", notified.Items[2].Reason)

	require.NoError(t, notified.ToFile(path))

	stored, err := GetNotifiedFromFile(path)
	require.NoError(t, err)
	assert.True(t, stored.Has("a1", "p2"))
	assert.True(t, stored.Has("a2", "p1"))
	assert.False(t, stored.Has("a2", "p2"))
	assert.True(t, at.Equal(stored.Items[0].NotifiedAt))

	stored.Append(&NotifiedProperties{Items: []*NotifiedProperty{{PropertyID: "p9", AlertID: "a1", Actor: NotifiedActorUser}}})
	require.NoError(t, stored.ToFile(path))

	reloaded, err := GetNotifiedFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.Len())
	assert.True(t, reloaded.Has("a1", "p9"))
}

func TestExcludeNotifiedIsScopedToAlert(t *testing.T) {
	props := testProperties("p1", "p2")
	p1, p2 := props.Items[0].Candidate, props.Items[1].Candidate

	triggered := &Triggered{Items: []matching.TriggeredAlert{
		{Alert: matching.Alert{ID: "A"}, Matches: []matching.MatchResult{{Candidate: p1}}, Count: 1},
		{Alert: matching.Alert{ID: "B"}, Matches: []matching.MatchResult{{Candidate: p1}, {Candidate: p2}}, Count: 2},
	}}
	notified := &NotifiedProperties{Items: []*NotifiedProperty{
		{AlertID: "A", PropertyID: "p1"},
		{AlertID: "C", PropertyID: "p2"},
	}}

	removed := triggered.ExcludeNotified(notified)

	assert.Equal(t, 1, removed)
	require.Equal(t, 1, triggered.Len())
	assert.Equal(t, "B", triggered.Items[0].Alert.ID)
	assert.Equal(t, []string{"p1", "p2"}, triggered.Items[0].CandidateIDs())
	assert.Equal(t, 2, triggered.Items[0].Count)
}

func TestExcludeNotifiedKeepsUnreportedMatches(t *testing.T) {
	props := testProperties("p1", "p2", "p3")

	triggered := &Triggered{Items: []matching.TriggeredAlert{{
		Alert: matching.Alert{ID: "A"},
		Matches: []matching.MatchResult{
			{Candidate: props.Items[0].Candidate},
			{Candidate: props.Items[1].Candidate},
			{Candidate: props.Items[2].Candidate},
		},
		Count: 3,
	}}}
	notified := &NotifiedProperties{Items: []*NotifiedProperty{{AlertID: "A", PropertyID: "p2"}}}

	assert.Equal(t, 1, triggered.ExcludeNotified(notified))
	require.Equal(t, 1, triggered.Len())
	assert.Equal(t, []string{"p1", "p3"}, triggered.Items[0].CandidateIDs())
	assert.Equal(t, 2, triggered.Items[0].Count)
	assert.Equal(t, 2, triggered.PropertyCount())

	assert.Zero(t, triggered.ExcludeNotified(&NotifiedProperties{}))
	assert.Zero(t, triggered.ExcludeNotified(nil))
}
