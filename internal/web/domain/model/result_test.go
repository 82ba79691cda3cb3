package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestQueryProcessingResult_WriteTo(t *testing.T) {
	path := AllocateForQuery(queryFor(TenantID{Value: "acme"}, "alice", "q1"))
	result := NewQueryProcessingResult(path, 2)
	w := &countingWriter{}

	n, err := result.WriteTo(w)

	require.NoError(t, err)
	assert.Equal(t, 1, w.writes)
	assert.Equal(t, int64(w.Len()), n)

	var decoded struct {
		Path  string `json:"path"`
		Count int64  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Bytes(), &decoded))
	assert.Equal(t, path.String(), decoded.Path)
	assert.Equal(t, int64(2), decoded.Count)
}

func TestQueryProcessingResult_WriteToPropagatesErrors(t *testing.T) {
	_, err := QueryProcessingResult{Path: "p", Count: 1}.WriteTo(failingWriter{})
	assert.EqualError(t, err, "connection reset")
}

func TestSubscribeResult_WriteTo(t *testing.T) {
	sub := Subscription{
		ID:    SubscriptionID{Value: "_/alice/t1"},
		Topic: Topic{ID: "t1", Target: Target{Type: "Task", IncludeAll: true}},
	}
	w := &countingWriter{}

	_, err := SubscribeResult{Subscription: sub}.WriteTo(w)

	require.NoError(t, err)
	assert.Equal(t, 1, w.writes)
	var decoded Subscription
	require.NoError(t, json.Unmarshal(w.Bytes(), &decoded))
	assert.Equal(t, sub, decoded)
}
