// Package listings talks to the CRM REST API that owns property listings and
// saved property alerts.
package listings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/property-alerts/internal/matching"
)

const (
	userAgent = "spigell/property-alerts"
	// Max value for list requests per page.
	perPage = "100"

	propertiesPath = "/properties"
	alertsPath     = "/alerts"
)

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	// Cache is consulted before listing properties when set.
	Cache PropertyCache
}

func New(apiURL, token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  token,
		APIURL: strings.TrimRight(apiURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// Properties returns all listings matching the search parameters, walking every page.
func (c *Client) Properties(ctx context.Context, params *SearchParams) (*Properties, error) {
	if params == nil {
		params = &SearchParams{}
	}

	q := buildParams(params)
	key := q.Encode()

	if c.Cache != nil {
		cached, err := c.Cache.Load(ctx, key)
		switch {
		case err == nil:
			c.logger.Debug("using cached properties", zap.Int("count", cached.Len()))
			return cached, nil
		case !errors.Is(err, ErrCacheMiss):
			c.logger.Warn("loading cached properties failed", zap.Error(err))
		}
	}

	items, err := c.GetItems(ctx, c.APIURL+propertiesPath, q)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	var props []*Property
	if err := decodeItems(items, &props); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}

	result := &Properties{Items: props}

	if c.Cache != nil {
		if err := c.Cache.Store(ctx, key, result); err != nil {
			c.logger.Warn("caching properties failed", zap.Error(err))
		}
	}

	return result, nil
}

// Property fetches a single listing.
func (c *Client) Property(ctx context.Context, id string) (*Property, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("property id is required")
	}

	var raw map[string]any
	if err := c.getJSON(ctx, fmt.Sprintf("%s%s/%s", c.APIURL, propertiesPath, url.PathEscape(id)), nil, &raw); err != nil {
		return nil, fmt.Errorf("get property %s: %w", id, err)
	}

	var prop Property
	if err := decode(raw, &prop); err != nil {
		return nil, fmt.Errorf("decode property %s: %w", id, err)
	}

	return &prop, nil
}

// Alerts returns every saved alert, active or not.
func (c *Client) Alerts(ctx context.Context) (*Alerts, error) {
	q := url.Values{}
	q.Set("per_page", perPage)

	items, err := c.GetItems(ctx, c.APIURL+alertsPath, q)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	var alerts []*matching.Alert
	if err := decodeItems(items, &alerts); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}

	return &Alerts{Items: alerts}, nil
}

// Alert fetches a single saved alert.
func (c *Client) Alert(ctx context.Context, id string) (*matching.Alert, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("alert id is required")
	}

	var raw map[string]any
	if err := c.getJSON(ctx, fmt.Sprintf("%s%s/%s", c.APIURL, alertsPath, url.PathEscape(id)), nil, &raw); err != nil {
		return nil, fmt.Errorf("get alert %s: %w", id, err)
	}

	var alert matching.Alert
	if err := decode(raw, &alert); err != nil {
		return nil, fmt.Errorf("decode alert %s: %w", id, err)
	}

	return &alert, nil
}

// ReportTriggered stores the matches of a triggered alert in the CRM.
func (c *Client) ReportTriggered(ctx context.Context, t *matching.TriggeredAlert) error {
	payload := triggeredPayload{
		ID:          t.ID,
		EvaluatedAt: t.EvaluatedAt,
		Count:       t.Count,
		Matches:     make([]triggeredMatch, 0, len(t.Matches)),
	}

	for _, m := range t.Matches {
		percent, _ := m.Percent()
		payload.Matches = append(payload.Matches, triggeredMatch{
			PropertyID: m.Candidate.ID,
			Score:      percent,
			Details:    m.Details,
		})
	}

	endpoint := fmt.Sprintf("%s%s/%s/matches", c.APIURL, alertsPath, url.PathEscape(t.Alert.ID))
	if err := c.postJSON(ctx, endpoint, payload); err != nil {
		return fmt.Errorf("report alert %s: %w", t.Alert.ID, err)
	}

	return nil
}

type triggeredPayload struct {
	ID          string           `json:"id"`
	EvaluatedAt time.Time        `json:"evaluatedAt"`
	Count       int              `json:"count"`
	Matches     []triggeredMatch `json:"matches"`
}

type triggeredMatch struct {
	PropertyID string                     `json:"propertyId"`
	Score      int                        `json:"score"`
	Details    []matching.CriterionDetail `json:"details"`
}
