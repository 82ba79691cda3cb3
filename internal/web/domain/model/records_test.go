package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecords_JSONShapes(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		kind   RecordKind
		want   string
	}{
		{"added", AddedRecord{Data: `{"id":"1"}`}, RecordKindAdded, `{"data":"{\"id\":\"1\"}"}`},
		{"removed", RemovedRecord{Key: "k1"}, RecordKindRemoved, `{"key":"k1"}`},
		{"changed", ChangedRecord{Key: "k1", Data: `{}`}, RecordKindChanged, `{"key":"k1","data":"{}"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.record)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(body))
			assert.Equal(t, tt.kind, tt.record.Kind())
		})
	}
}

func TestRecordBatch_Append(t *testing.T) {
	path := AllocateForTopic(Topic{ID: "t1", Target: Target{Type: "Task", IncludeAll: true}})
	batch := NewRecordBatch(path)

	batch.Append(AddedRecord{Data: "{}"})
	batch.Append(ChangedRecord{Key: "a", Data: "{}"})
	batch.Append(RemovedRecord{Key: "b"})
	batch.Append(AddedRecord{Data: "{}"})

	assert.Equal(t, path.String(), batch.Path)
	assert.Len(t, batch.Added, 2)
	assert.Len(t, batch.Changed, 1)
	assert.Len(t, batch.Removed, 1)
	assert.Equal(t, 4, batch.Len())
}
