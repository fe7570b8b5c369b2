package bluemf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"github.com/wonny/bluemf/backend/pkg/config"
	"github.com/wonny/bluemf/backend/pkg/httputil"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

const companyPath = "/server/api/company.php"

// Provider errors, matched with errors.Is
var (
	ErrStatus        = errors.New("unexpected status code")
	ErrInvalidJSON   = errors.New("response is not valid JSON")
	ErrEmptyResponse = errors.New("empty response")
)

// Client fetches per-company financial documents from the provider API
// ⭐ SSOT: 재무 데이터 API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
	repairJSON bool
}

// NewClient creates a provider client
func NewClient(httpClient *httputil.Client, cfg config.ProviderConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithComponent("bluemf_client"),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		repairJSON: cfg.RepairJSON,
	}
}

// FetchCompany returns one company's raw JSON document.
// Requests are not retried.
func (c *Client) FetchCompany(ctx context.Context, companyID string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("id", companyID)
	params.Set("api_key", c.apiKey)
	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, companyPath, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", companyID, err)
	}

	if !resp.OK() {
		return nil, fmt.Errorf("fetch %s: %w: %d", companyID, ErrStatus, resp.StatusCode)
	}

	body, err := c.decode(companyID, resp.Body)
	if err != nil {
		return nil, err
	}

	if isEmptyDocument(body) {
		return nil, fmt.Errorf("fetch %s: %w", companyID, ErrEmptyResponse)
	}

	return body, nil
}

// decode checks the body is JSON, repairing it when enabled
func (c *Client) decode(companyID string, body []byte) (json.RawMessage, error) {
	if json.Valid(body) {
		return json.RawMessage(body), nil
	}

	if !c.repairJSON {
		return nil, fmt.Errorf("fetch %s: %w", companyID, ErrInvalidJSON)
	}

	repaired, err := jsonrepair.RepairJSON(string(body))
	if err != nil || !json.Valid([]byte(repaired)) {
		return nil, fmt.Errorf("fetch %s: %w", companyID, ErrInvalidJSON)
	}

	c.logger.WithField("company_id", companyID).Warn("Repaired malformed provider JSON")
	return json.RawMessage(repaired), nil
}

// isEmptyDocument reports null, "", {} and [] bodies
func isEmptyDocument(body []byte) bool {
	switch string(bytes.TrimSpace(body)) {
	case "", "null", "{}", "[]", `""`, "false", "0":
		return true
	}
	return false
}
