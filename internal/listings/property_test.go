package listings

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/property-alerts/internal/matching"
)

func testProperties(ids ...string) *Properties {
	props := &Properties{}
	for _, id := range ids {
		props.Items = append(props.Items, &Property{Candidate: matching.Candidate{ID: id, Name: "Listing " + id}})
	}
	return props
}

func TestPropertiesKeepPreservesOrder(t *testing.T) {
	props := testProperties("p1", "p2", "p3", "p4")

	dropped := props.Keep(func(p *Property) bool { return p.ID != "p2" && p.ID != "p4" })

	assert.Equal(t, []string{"p2", "p4"}, dropped)
	assert.Equal(t, []string{"p1", "p3"}, props.IDs())
}

func TestPropertiesFindByID(t *testing.T) {
	props := testProperties("p1", "p2", "p3")

	assert.Nil(t, props.FindByID("missing"))
	require.NotNil(t, props.FindByID("p3"))
	assert.Equal(t, "Listing p3", props.FindByID("p3").Name)
}

func TestPropertiesCandidates(t *testing.T) {
	props := testProperties("p1", "p2")

	candidates := props.Candidates()
	require.Len(t, candidates, 2)
	assert.Equal(t, "Listing p2", candidates[1].Name)
}

func TestPropertiesDumpToTmpFile(t *testing.T) {
	props := testProperties("p1")

	path, err := props.DumpToTmpFile()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(path) })

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var dumped Properties
	require.NoError(t, json.Unmarshal(data, &dumped))
	assert.Equal(t, []string{"p1"}, dumped.IDs())
}

func TestTriggeredReportByAlert(t *testing.T) {
	price := 1_250_000.0
	lo, hi := 500_000.0, 2_000_000.0
	criteria := matching.Criteria{PriceMin: &lo, PriceMax: &hi}

	candidate := matching.Candidate{ID: "p1", Name: "Harbor Tower", Location: "Seattle, WA", Price: &price}

	triggered := &Triggered{Items: []matching.TriggeredAlert{
		{
			Alert:       matching.Alert{ID: "a1", Name: "Offices", Criteria: criteria},
			Matches:     []matching.MatchResult{matching.Evaluate(candidate, criteria)},
			EvaluatedAt: time.Now(),
			Count:       1,
		},
		{
			Alert:   matching.Alert{ID: "a2", Name: "Anything"},
			Matches: []matching.MatchResult{matching.Evaluate(candidate, matching.Criteria{})},
			Count:   1,
		},
	}}

	assert.Equal(t, 2, triggered.Len())
	assert.Equal(t, 2, triggered.PropertyCount())

	report := triggered.ReportByAlert()
	require.Len(t, report, 2)

	offices := report["Offices (a1)"]
	require.Len(t, offices, 1)
	assert.Equal(t, "p1", offices[0]["id"])
	assert.Equal(t, "Seattle, WA", offices[0]["location"])
	assert.Equal(t, "100%", offices[0]["score"])
	assert.Equal(t, "Price: $500,000 - $2,000,000", offices[0]["criteria"])

	anything := report["Anything (a2)"]
	require.Len(t, anything, 1)
	assert.Equal(t, "n/a", anything[0]["score"])
	assert.Equal(t, "Any property", anything[0]["criteria"])
}

func TestBuildParams(t *testing.T) {
	q := buildParams(&SearchParams{
		Query:    "harbor",
		Types:    []string{"office", "", "retail"},
		MinPrice: 100000,
		OrderBy:  "listed_at",
	})

	assert.Equal(t, "harbor", q.Get("q"))
	assert.Equal(t, []string{"office", "retail"}, q["type"])
	assert.Equal(t, "100000", q.Get("min_price"))
	assert.False(t, q.Has("max_price"))
	assert.False(t, q.Has("agent"))
	assert.Equal(t, "listed_at", q.Get("order_by"))
	assert.Equal(t, perPage, q.Get("per_page"))

	q = buildParams(&SearchParams{PerPage: "25"})
	assert.Equal(t, "25", q.Get("per_page"))
}
