package model

import (
	"encoding/json"
	"io"
)

// QueryProcessingResult tells the client where query results were mirrored and how many
// entries to expect there.
type QueryProcessingResult struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// NewQueryProcessingResult builds the result for count entities mirrored under path.
func NewQueryProcessingResult(path DatabasePath, count int) QueryProcessingResult {
	return QueryProcessingResult{Path: path.String(), Count: int64(count)}
}

// WriteTo writes the JSON form of the result to w in a single Write call.
func (r QueryProcessingResult) WriteTo(w io.Writer) (int64, error) {
	return writeJSON(w, r)
}

// SubscribeResult is the response to a subscription request.
type SubscribeResult struct {
	Subscription Subscription
}

// WriteTo writes the subscription JSON to w in a single Write call.
func (r SubscribeResult) WriteTo(w io.Writer) (int64, error) {
	return writeJSON(w, r.Subscription)
}

func writeJSON(w io.Writer, v interface{}) (int64, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(body)
	return int64(n), err
}
