package usecase

import (
	"context"
	"fmt"

	"firebase-web/internal/shared/errors"
	"firebase-web/internal/shared/logger"
	"firebase-web/internal/shared/utils"
	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/domain/repository"
)

// QueryBridge executes queries and mirrors their results to the database.
type QueryBridge interface {
	// Send reads the entities q targets, pushes each of them under the path allocated
	// for q and reports that path with the number of entities.
	Send(ctx context.Context, q model.Query) (model.QueryProcessingResult, error)
}

type firebaseQueryBridge struct {
	service repository.QueryService
	db      repository.DatabaseClient
	metrics Metrics
	log     logger.Logger
}

// NewQueryBridge creates a QueryBridge. A nil metrics disables counting.
func NewQueryBridge(service repository.QueryService, db repository.DatabaseClient, metrics Metrics, log logger.Logger) QueryBridge {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &firebaseQueryBridge{
		service: service,
		db:      db,
		metrics: metrics,
		log:     log.WithComponent("query-bridge"),
	}
}

func (b *firebaseQueryBridge) Send(ctx context.Context, q model.Query) (model.QueryProcessingResult, error) {
	ctx = utils.WithOperation(ctx, "send_query")
	model.EnsureID(&q.ID)
	if err := applyRequestContext(ctx, &q.Context); err != nil {
		return model.QueryProcessingResult{}, err
	}
	if err := q.Validate(); err != nil {
		return model.QueryProcessingResult{}, validationError(err)
	}

	entities, err := b.service.Read(ctx, q)
	if err != nil {
		return model.QueryProcessingResult{}, errors.WrapError(err, "failed to execute query")
	}

	path := model.AllocateForQuery(q)
	if err := b.mirror(ctx, path, entities); err != nil {
		return model.QueryProcessingResult{}, errors.NewInfrastructureError("failed to mirror query result").WithCause(err)
	}

	b.metrics.QueryMirrored(len(entities))
	b.log.WithContext(ctx).WithFields(map[string]interface{}{
		"query_id": q.ID,
		"path":     path.String(),
		"count":    len(entities),
	}).Debug("Query result mirrored")
	return model.NewQueryProcessingResult(path, len(entities)), nil
}

// mirror replaces whatever is stored at path with one pushed child per entity.
func (b *firebaseQueryBridge) mirror(ctx context.Context, path model.DatabasePath, entities []model.EntityState) error {
	if err := b.db.Delete(ctx, path); err != nil {
		return err
	}
	for _, entity := range entities {
		if _, err := b.db.Push(ctx, path, entityJSON(entity.State)); err != nil {
			return fmt.Errorf("push entity %s: %w", entity.ID, err)
		}
	}
	return nil
}

func entityJSON(state []byte) string {
	if len(state) == 0 {
		return "null"
	}
	return string(state)
}
