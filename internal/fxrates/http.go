package fxrates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"
)

const (
	// DefaultBaseURL serves the latest rates at {DefaultBaseURL}/{BASE}.
	DefaultBaseURL = "https://open.er-api.com/v6/latest"
	// DefaultTimeout bounds a single rate request.
	DefaultTimeout = 10 * time.Second
)

// HTTPProvider fetches latest rates from an open.er-api.com compatible API.
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

type latestResponse struct {
	Result    string             `json:"result"`
	ErrorType string             `json:"error-type"`
	BaseCode  string             `json:"base_code"`
	Rates     map[string]float64 `json:"rates"`
}

// NewHTTPProvider creates a provider for baseURL. Zero values select
// DefaultBaseURL and DefaultTimeout.
func NewHTTPProvider(baseURL string, timeout time.Duration, logger logging.Logger) *HTTPProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Rates implements Provider.
func (p *HTTPProvider) Rates(ctx context.Context, base string, currencies []string) (RateTable, error) {
	base = NormalizeCurrency(base)
	if base == "" {
		return nil, &RateUnavailableError{Err: errors.New("base currency is empty")}
	}
	wanted := normalizeCurrencies(currencies)

	all, err := p.fetch(ctx, base)
	if err != nil {
		p.logger.WithError(err).Warn("Failed to fetch exchange rates",
			logging.Field{Key: logging.FieldBase, Value: base})
		return nil, &RateUnavailableError{Base: base, Err: err}
	}

	table, missing := selectRates(all, wanted)
	if len(missing) > 0 {
		return nil, &RateUnavailableError{Base: base, Missing: missing}
	}

	p.logger.Debug("Fetched exchange rates",
		logging.Field{Key: logging.FieldBase, Value: base},
		logging.Field{Key: logging.FieldCount, Value: len(table)})
	return table, nil
}

func (p *HTTPProvider) fetch(ctx context.Context, base string) (map[string]float64, error) {
	endpoint := p.baseURL + "/" + url.PathEscape(base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rate API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if payload.Result != "success" {
		reason := payload.ErrorType
		if reason == "" {
			reason = "result " + payload.Result
		}
		return nil, fmt.Errorf("rate API error: %s", reason)
	}

	rates := make(map[string]float64, len(payload.Rates))
	for code, rate := range payload.Rates {
		if rate <= 0 {
			continue
		}
		rates[NormalizeCurrency(code)] = rate
	}
	return rates, nil
}
