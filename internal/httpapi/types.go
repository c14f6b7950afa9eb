// Package httpapi exposes the prediction pipeline over a JSON HTTP API.
package httpapi

import (
	"nextbar/internal/pipeline"
	"nextbar/internal/store"
)

const dateLayout = "2006-01-02"

// OHLCJSON is the previous session's bar in the response.
type OHLCJSON struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// PredictionJSON is the forecast block of the response.
type PredictionJSON struct {
	TargetDate     string `json:"target_date"`
	PredictedClose string `json:"predicted_close"`
	Method         string `json:"method"`
}

// PredictNextResponse is the payload of GET /api/predict-next.
type PredictNextResponse struct {
	Symbol      string         `json:"symbol"`
	Venue       string         `json:"venue"`
	Timezone    string         `json:"timezone"`
	PreviousDay OHLCJSON       `json:"previous_day"`
	Prediction  PredictionJSON `json:"prediction"`
	BestEffort  bool           `json:"best_effort,omitempty"`
}

// HistoryEntryJSON is one stored prediction.
type HistoryEntryJSON struct {
	SessionDate    string  `json:"session_date"`
	Close          float64 `json:"close"`
	TargetDate     string  `json:"target_date"`
	PredictedClose string  `json:"predicted_close"`
	Method         string  `json:"method"`
	CreatedAt      int64   `json:"created_at"`
}

// HistoryResponse is the payload of GET /api/history/{symbol}.
type HistoryResponse struct {
	Symbol  string             `json:"symbol"`
	Entries []HistoryEntryJSON `json:"entries"`
}

func convertResult(r *pipeline.Result) PredictNextResponse {
	return PredictNextResponse{
		Symbol:   r.Ticker,
		Venue:    r.Venue,
		Timezone: r.Timezone,
		PreviousDay: OHLCJSON{
			Date:   r.SessionDate.Format(dateLayout),
			Open:   r.Bar.Open,
			High:   r.Bar.High,
			Low:    r.Bar.Low,
			Close:  r.Bar.Close,
			Volume: r.Bar.Volume,
		},
		Prediction: PredictionJSON{
			TargetDate:     r.TargetDate.Format(dateLayout),
			PredictedClose: r.Predicted.String(),
			Method:         r.Method,
		},
		BestEffort: r.BestEffort,
	}
}

func convertRecord(rec store.PredictionRecord) HistoryEntryJSON {
	return HistoryEntryJSON{
		SessionDate:    rec.SessionDate.Format(dateLayout),
		Close:          rec.Close,
		TargetDate:     rec.TargetDate.Format(dateLayout),
		PredictedClose: rec.Predicted,
		Method:         rec.Method,
		CreatedAt:      rec.CreatedAt.Unix(),
	}
}
