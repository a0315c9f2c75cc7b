package matching

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/property-alerts/internal/logger"
)

// ProcessAlerts evaluates every active alert against every candidate and returns
// one TriggeredAlert per alert that matched at least one candidate. Output keeps
// the alert order and, within an alert, the candidate order.
func ProcessAlerts(candidates []Candidate, alerts []Alert, at time.Time) []TriggeredAlert {
	triggered := make([]TriggeredAlert, 0)

	for _, alert := range alerts {
		if !alert.Active {
			continue
		}
		if t, ok := trigger(candidates, alert, at); ok {
			triggered = append(triggered, t)
		}
	}

	return triggered
}

func trigger(candidates []Candidate, alert Alert, at time.Time) (TriggeredAlert, bool) {
	matches := MatchAll(candidates, alert.Criteria)
	if len(matches) == 0 {
		return TriggeredAlert{}, false
	}

	return TriggeredAlert{
		ID:          uuid.NewString(),
		Alert:       alert,
		Matches:     matches,
		EvaluatedAt: at,
		Count:       len(matches),
	}, true
}

// MatchAll returns the matched results of criteria over candidates in candidate order.
func MatchAll(candidates []Candidate, cr Criteria) []MatchResult {
	var matches []MatchResult
	for _, c := range candidates {
		if result := Evaluate(c, cr); result.Matched {
			matches = append(matches, result)
		}
	}
	return matches
}

// Engine runs alert processing with logging and an injectable clock.
type Engine struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates an Engine. A nil logger discards output.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Process evaluates alerts against candidates with the same output as
// ProcessAlerts, logging the outcome of every alert.
func (e *Engine) Process(candidates []Candidate, alerts []Alert) []TriggeredAlert {
	at := e.now()
	triggered := make([]TriggeredAlert, 0)

	for _, alert := range alerts {
		fields := logger.AlertFields(alert.ID, alert.Name)
		if !alert.Active {
			e.logger.Debug("skipping inactive alert", fields...)
			continue
		}

		t, ok := trigger(candidates, alert, at)
		if !ok {
			e.logger.Debug("alert matched nothing", append(fields, zap.Int("candidates", len(candidates)))...)
			continue
		}

		e.logger.Info("alert triggered", append(fields, zap.Int("matches", t.Count))...)
		triggered = append(triggered, t)
	}

	e.logger.Info("alerts processed",
		zap.Int("alerts", len(alerts)),
		zap.Int("candidates", len(candidates)),
		zap.Int("triggered", len(triggered)),
	)

	return triggered
}

// Test evaluates a single alert against a single candidate regardless of whether
// the alert is active.
func (e *Engine) Test(c Candidate, alert Alert) MatchResult {
	result := Evaluate(c, alert.Criteria)
	percent, scored := result.Percent()
	fields := append(logger.AlertFields(alert.ID, alert.Name), logger.PropertyFields(c.ID, c.Name)...)
	e.logger.Debug("alert tested", append(fields,
		zap.Bool("matched", result.Matched),
		zap.Int("score", percent),
		zap.Bool("scored", scored),
	)...)
	return result
}
