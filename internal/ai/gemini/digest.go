package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/property-alerts/internal/logger"
	"github.com/spigell/property-alerts/internal/matching"
	"github.com/spigell/property-alerts/internal/utils"
)

const (
	systemInstruction   = "You write concise, factual property alert digests for real estate brokers."
	defaultMaxLogLength = 200
)

//go:embed prompt.md
var promptTemplate string

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// Digester summarises triggered alerts with Gemini.
type Digester struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewDigester(generator contentGenerator, log *zap.Logger, maxLogLength int) *Digester {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Digester{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

func (d *Digester) Digest(ctx context.Context, t *matching.TriggeredAlert) (string, error) {
	if t == nil {
		return "", errors.New("triggered alert is required")
	}
	if len(t.Matches) == 0 {
		return "", fmt.Errorf("alert %s has no matches", t.Alert.ID)
	}

	prompt, err := buildPrompt(t)
	if err != nil {
		return "", err
	}

	log := logger.WithFields(d.logger, logger.AlertFields(t.Alert.ID, t.Alert.Name)...)

	log.Debug("gemini digest request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, d.maxLogLen)),
	)

	raw, err := d.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return "", err
	}

	log.Debug("gemini digest response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, d.maxLogLen)),
	)

	return strings.TrimSpace(raw), nil
}

type digestMatch struct {
	ID       string                     `json:"id"`
	Name     string                     `json:"name"`
	Type     string                     `json:"type,omitempty"`
	Location string                     `json:"location,omitempty"`
	Price    *float64                   `json:"price,omitempty"`
	Score    *int                       `json:"score,omitempty"`
	Details  []matching.CriterionDetail `json:"details"`
}

func buildPrompt(t *matching.TriggeredAlert) (string, error) {
	matches := make([]digestMatch, 0, len(t.Matches))
	for _, m := range t.Matches {
		entry := digestMatch{
			ID:       m.Candidate.ID,
			Name:     m.Candidate.Name,
			Type:     m.Candidate.Type,
			Location: m.Candidate.Location,
			Price:    m.Candidate.Price,
			Details:  m.Details,
		}
		if percent, ok := m.Percent(); ok {
			entry.Score = &percent
		}
		matches = append(matches, entry)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return scoreOf(matches[i]) > scoreOf(matches[j])
	})

	matchesJSON, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal matches payload: %w", err)
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Alert: {{ALERT_NAME}}\nCriteria: {{CRITERIA}}\nMatches ({{MATCH_COUNT}}):\n{{MATCHES_JSON}}"
	}

	return strings.NewReplacer(
		"{{ALERT_NAME}}", t.Alert.Name,
		"{{CRITERIA}}", matching.Summarize(t.Alert.Criteria),
		"{{MATCH_COUNT}}", strconv.Itoa(len(matches)),
		"{{MATCHES_JSON}}", string(matchesJSON),
	).Replace(template), nil
}

func scoreOf(m digestMatch) int {
	if m.Score == nil {
		return -1
	}
	return *m.Score
}
