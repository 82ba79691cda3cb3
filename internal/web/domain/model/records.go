package model

// RecordKind names one of the three subscription record variants.
type RecordKind string

const (
	RecordKindAdded   RecordKind = "added"
	RecordKindRemoved RecordKind = "removed"
	RecordKindChanged RecordKind = "changed"
)

// Record is one entity mutation written for a subscription update.
// The set of implementations is closed: AddedRecord, RemovedRecord and ChangedRecord.
type Record interface {
	Kind() RecordKind
	record()
}

// AddedRecord marks a newly visible entity.
type AddedRecord struct {
	// Data is the JSON serialized entity state.
	Data string `json:"data"`
}

// RemovedRecord marks an entity that disappeared from the subscription.
type RemovedRecord struct {
	// Key of the entity relative to the subscription root.
	Key string `json:"key"`
}

// ChangedRecord marks an entity whose state changed.
type ChangedRecord struct {
	Key  string `json:"key"`
	Data string `json:"data"`
}

func (AddedRecord) Kind() RecordKind   { return RecordKindAdded }
func (RemovedRecord) Kind() RecordKind { return RecordKindRemoved }
func (ChangedRecord) Kind() RecordKind { return RecordKindChanged }

func (AddedRecord) record()   {}
func (RemovedRecord) record() {}
func (ChangedRecord) record() {}

// RecordBatch groups the records produced by one subscription update.
type RecordBatch struct {
	Path    string          `json:"path"`
	Added   []AddedRecord   `json:"added,omitempty"`
	Changed []ChangedRecord `json:"changed,omitempty"`
	Removed []RemovedRecord `json:"removed,omitempty"`
}

// NewRecordBatch starts an empty batch for path.
func NewRecordBatch(path DatabasePath) *RecordBatch {
	return &RecordBatch{Path: path.String()}
}

// Append adds r to the matching group.
func (b *RecordBatch) Append(r Record) {
	switch rec := r.(type) {
	case AddedRecord:
		b.Added = append(b.Added, rec)
	case ChangedRecord:
		b.Changed = append(b.Changed, rec)
	case RemovedRecord:
		b.Removed = append(b.Removed, rec)
	}
}

// Len is the total number of records in the batch.
func (b *RecordBatch) Len() int {
	return len(b.Added) + len(b.Changed) + len(b.Removed)
}
