// Package nextbar provides a Go client for the nextbar server API.
package nextbar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a nextbar server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// OHLC is the previous session's bar.
type OHLC struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Prediction is the forecast block.
type Prediction struct {
	TargetDate     string `json:"target_date"`
	PredictedClose string `json:"predicted_close"`
	Method         string `json:"method"`
}

// PredictNextResult is the response of PredictNext.
type PredictNextResult struct {
	Symbol      string     `json:"symbol"`
	Venue       string     `json:"venue"`
	Timezone    string     `json:"timezone"`
	PreviousDay OHLC       `json:"previous_day"`
	Prediction  Prediction `json:"prediction"`
	BestEffort  bool       `json:"best_effort"`
}

// SymbolMatch is one autocomplete candidate.
type SymbolMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
}

// HistoryEntry is one stored prediction.
type HistoryEntry struct {
	SessionDate    string  `json:"session_date"`
	Close          float64 `json:"close"`
	TargetDate     string  `json:"target_date"`
	PredictedClose string  `json:"predicted_close"`
	Method         string  `json:"method"`
	CreatedAt      int64   `json:"created_at"`
}

// PredictNext fetches the completed-session bar and next-day prediction for
// a symbol.
func (c *Client) PredictNext(ctx context.Context, symbol string) (*PredictNextResult, error) {
	u := fmt.Sprintf("%s/api/predict-next?symbol=%s", c.baseURL, url.QueryEscape(symbol))
	var out PredictNextResult
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search queries symbol autocomplete.
func (c *Client) Search(ctx context.Context, query string) ([]SymbolMatch, error) {
	u := fmt.Sprintf("%s/api/search?q=%s", c.baseURL, url.QueryEscape(query))
	var out struct {
		Matches []SymbolMatch `json:"matches"`
	}
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	return out.Matches, nil
}

// History fetches recently served predictions for a symbol.
func (c *Client) History(ctx context.Context, symbol string) ([]HistoryEntry, error) {
	u := fmt.Sprintf("%s/api/history/%s", c.baseURL, url.PathEscape(symbol))
	var out struct {
		Entries []HistoryEntry `json:"entries"`
	}
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("nextbar: %s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("nextbar: status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
