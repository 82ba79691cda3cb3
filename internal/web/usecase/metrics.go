package usecase

import "firebase-web/internal/web/domain/model"

// Metrics receives counters about mirrored data.
type Metrics interface {
	RecordsWritten(kind model.RecordKind, n int)
	QueryMirrored(entities int)
	SubscriptionsActive(delta int)
}

type noopMetrics struct{}

func (noopMetrics) RecordsWritten(model.RecordKind, int) {}
func (noopMetrics) QueryMirrored(int)                    {}
func (noopMetrics) SubscriptionsActive(int)              {}
