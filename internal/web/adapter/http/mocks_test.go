package http_test

import (
	"context"
	"errors"
	"time"

	"firebase-web/internal/web/adapter/persistence/memory"
	"firebase-web/internal/web/adapter/security"
	"firebase-web/internal/web/domain/model"

	"github.com/stretchr/testify/mock"
)

type mockCommandUsecase struct {
	mock.Mock
}

func (m *mockCommandUsecase) Post(ctx context.Context, cmd model.Command) (model.Ack, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(model.Ack), args.Error(1)
}

type mockQueryBridge struct {
	mock.Mock
}

func (m *mockQueryBridge) Send(ctx context.Context, q model.Query) (model.QueryProcessingResult, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.QueryProcessingResult), args.Error(1)
}

type mockSubscriptionBridge struct {
	mock.Mock
}

func (m *mockSubscriptionBridge) Subscribe(ctx context.Context, topic model.Topic) (model.Subscription, error) {
	args := m.Called(ctx, topic)
	return args.Get(0).(model.Subscription), args.Error(1)
}

func (m *mockSubscriptionBridge) KeepUp(ctx context.Context, sub model.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *mockSubscriptionBridge) Cancel(ctx context.Context, sub model.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *mockSubscriptionBridge) CancelExpired(ctx context.Context) int {
	return m.Called(ctx).Int(0)
}

func (m *mockSubscriptionBridge) RunSweeper(ctx context.Context, interval time.Duration) {
	m.Called(ctx, interval)
}

func (m *mockSubscriptionBridge) Active() int {
	return m.Called().Int(0)
}

type mockTokenValidator struct {
	mock.Mock
}

func (m *mockTokenValidator) ValidateToken(ctx context.Context, token string) (*security.TenantClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.TenantClaims), args.Error(1)
}

// unreachableDatabase fails every ping.
type unreachableDatabase struct {
	*memory.Client
}

func (unreachableDatabase) Ping(context.Context) error {
	return errors.New("connection refused")
}
