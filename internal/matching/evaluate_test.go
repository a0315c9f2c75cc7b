package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestEvaluateWithoutCriteriaIsVacuousMatch(t *testing.T) {
	candidates := []Candidate{
		{},
		{ID: "p1", Name: "Pine Plaza", Price: ptr(1_000_000.0), Location: "Seattle"},
	}

	for _, c := range candidates {
		result := Evaluate(c, Criteria{})
		assert.True(t, result.Matched)
		assert.Empty(t, result.Details)
		assert.False(t, result.Scored)
		assert.Zero(t, result.Score)

		_, scored := result.Percent()
		assert.False(t, scored)
	}
}

func TestEvaluateOfficeInPriceRange(t *testing.T) {
	criteria := Criteria{
		PropertyTypes: []string{"office"},
		PriceMin:      ptr(500_000.0),
		PriceMax:      ptr(2_000_000.0),
	}
	candidate := Candidate{ID: "p1", Type: "office", Price: ptr(1_250_000.0)}

	result := Evaluate(candidate, criteria)

	require.Len(t, result.Details, 2)
	assert.True(t, result.Matched)

	price, ok := result.Detail(CriterionPrice)
	require.True(t, ok)
	assert.Equal(t, 100, price.Score)
	assert.Equal(t, "$1,250,000", price.Value)
	assert.Equal(t, "$500,000 - $2,000,000", price.Expected)

	kind, ok := result.Detail(CriterionType)
	require.True(t, ok)
	assert.Equal(t, 100, kind.Score)

	percent, scored := result.Percent()
	assert.True(t, scored)
	assert.Equal(t, 100, percent)
}

func TestEvaluateDetailCountFollowsSpecifiedCriteria(t *testing.T) {
	full := Candidate{
		ID:              "p1",
		Name:            "Harbor Tower",
		Type:            "office",
		Location:        "Seattle, WA",
		Description:     "Class A office with ample parking available",
		Price:           ptr(900_000.0),
		Size:            ptr(12_000.0),
		CapRate:         ptr(7.1),
		MonthlyCashFlow: ptr(8_000.0),
		DaysOnMarket:    ptr(12),
	}

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "only max price",
			criteria: Criteria{PriceMax: ptr(1_000_000.0)},
			want:     []string{CriterionPrice},
		},
		{
			name:     "blank slices are ignored",
			criteria: Criteria{PropertyTypes: []string{" "}, Locations: []string{}, Keywords: []string{""}},
			want:     []string{},
		},
		{
			name:     "radius alone does not constrain",
			criteria: Criteria{LocationRadius: ptr(10.0)},
			want:     []string{},
		},
		{
			name: "everything",
			criteria: Criteria{
				PriceMin:        ptr(100_000.0),
				PropertyTypes:   []string{"office"},
				Locations:       []string{"Seattle"},
				SizeMax:         ptr(20_000.0),
				MinCapRate:      ptr(6.0),
				MinCashFlow:     ptr(5_000.0),
				MaxDaysOnMarket: ptr(30),
				Keywords:        []string{"parking"},
			},
			want: []string{
				CriterionPrice, CriterionType, CriterionLocation, CriterionSize,
				CriterionCapRate, CriterionCashFlow, CriterionDaysOnMarket, CriterionKeywords,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(full, tt.criteria)

			got := make([]string, 0, len(result.Details))
			for _, d := range result.Details {
				got = append(got, d.Criterion)
			}
			assert.Equal(t, tt.want, got)
			assert.True(t, result.Matched)
		})
	}
}

func TestEvaluateMissingCandidateFieldsFailCriterion(t *testing.T) {
	criteria := Criteria{
		PriceMin:        ptr(1.0),
		Locations:       []string{"Seattle"},
		SizeMin:         ptr(1.0),
		MinCapRate:      ptr(5.0),
		MinCashFlow:     ptr(1.0),
		MaxDaysOnMarket: ptr(10),
		PropertyTypes:   []string{"retail"},
	}

	result := Evaluate(Candidate{ID: "empty"}, criteria)

	assert.False(t, result.Matched)
	require.Len(t, result.Details, 7)
	for _, d := range result.Details {
		assert.False(t, d.Matched, d.Criterion)
		assert.Zero(t, d.Score, d.Criterion)
		assert.Equal(t, notAvailable, d.Value, d.Criterion)
	}
	assert.True(t, result.Scored)
	assert.Zero(t, result.Score)
}

func TestEvaluateZeroThresholdsAreEnforced(t *testing.T) {
	criteria := Criteria{MinCapRate: ptr(0.0), MinCashFlow: ptr(0.0)}

	negative := Candidate{CapRate: ptr(-1.5), MonthlyCashFlow: ptr(-200.0)}
	result := Evaluate(negative, criteria)
	require.Len(t, result.Details, 2)
	assert.False(t, result.Matched)

	positive := Candidate{CapRate: ptr(0.0), MonthlyCashFlow: ptr(10.0)}
	result = Evaluate(positive, criteria)
	assert.True(t, result.Matched)

	capRate, _ := result.Detail(CriterionCapRate)
	assert.Equal(t, "0.00%", capRate.Value)
	assert.Equal(t, "≥ 0.00%", capRate.Expected)
}

func TestEvaluateBinaryThresholds(t *testing.T) {
	criteria := Criteria{MinCapRate: ptr(6.5), MinCashFlow: ptr(5000.0), MaxDaysOnMarket: ptr(60)}

	passing := Candidate{CapRate: ptr(6.5), MonthlyCashFlow: ptr(5000.0), DaysOnMarket: ptr(60)}
	result := Evaluate(passing, criteria)
	assert.True(t, result.Matched)
	assert.Equal(t, 100.0, result.Score)

	capRate, _ := result.Detail(CriterionCapRate)
	assert.Equal(t, "6.50%", capRate.Value)
	assert.Equal(t, "≥ 6.50%", capRate.Expected)

	days, _ := result.Detail(CriterionDaysOnMarket)
	assert.Equal(t, "60 days", days.Value)
	assert.Equal(t, "≤ 60 days", days.Expected)

	failing := Candidate{CapRate: ptr(6.49), MonthlyCashFlow: ptr(5000.0), DaysOnMarket: ptr(61)}
	result = Evaluate(failing, criteria)
	assert.False(t, result.Matched)

	percent, scored := result.Percent()
	assert.True(t, scored)
	assert.Equal(t, 33, percent)
}

func TestEvaluateKeywords(t *testing.T) {
	candidate := Candidate{
		Name:        "Lakeside Offices",
		Description: "Renovated lobby and ample parking available",
		Features:    []string{"Fiber internet"},
		Amenities:   []string{"Gym"},
	}

	tests := []struct {
		name      string
		keywords  []string
		matched   bool
		score     int
		wantValue string
	}{
		{name: "single keyword", keywords: []string{"parking"}, matched: true, score: 100, wantValue: "parking"},
		{name: "partial credit", keywords: []string{"parking", "elevator"}, matched: true, score: 50, wantValue: "parking"},
		{name: "case folded across features", keywords: []string{"FIBER", "gym", "Lakeside"}, matched: true, score: 100, wantValue: "fiber, gym, lakeside"},
		{name: "one of three", keywords: []string{"pool", "elevator", "lobby"}, matched: true, score: 33, wantValue: "lobby"},
		{name: "none found", keywords: []string{"pool"}, matched: false, score: 0, wantValue: "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(candidate, Criteria{Keywords: tt.keywords})
			d, ok := result.Detail(CriterionKeywords)
			require.True(t, ok)
			assert.Equal(t, tt.matched, d.Matched)
			assert.Equal(t, tt.score, d.Score)
			assert.Equal(t, tt.wantValue, d.Value)
			assert.Equal(t, tt.matched, result.Matched)
		})
	}
}

func TestEvaluateTypeIsCaseInsensitive(t *testing.T) {
	result := Evaluate(Candidate{Type: "Office"}, Criteria{PropertyTypes: []string{"office", "retail"}})
	assert.True(t, result.Matched)

	result = Evaluate(Candidate{Type: "industrial"}, Criteria{PropertyTypes: []string{"office", "retail"}})
	assert.False(t, result.Matched)

	d, _ := result.Detail(CriterionType)
	assert.Equal(t, "office, retail", d.Expected)
}

func TestEvaluateAverageScore(t *testing.T) {
	criteria := Criteria{
		PriceMin: ptr(0.0),
		PriceMax: ptr(100.0),
		Keywords: []string{"parking", "elevator"},
	}
	candidate := Candidate{Price: ptr(25.0), Description: "parking"}

	result := Evaluate(candidate, criteria)

	// price: 100 - |0.25-0.5|*100 = 75, keywords: 50
	assert.True(t, result.Matched)
	assert.InDelta(t, 62.5, result.Score, 1e-9)

	percent, _ := result.Percent()
	assert.Equal(t, 63, percent)
}
