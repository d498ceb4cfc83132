package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestWithContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)
	assert.Equal(t, logger, FromContext(ctx))
}

func TestFromContext_NotFound(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	ctx, logger := WithRequestID(context.Background(), zap.NewNop(), "req-123")
	assert.NotNil(t, logger)
	assert.Equal(t, "req-123", GetRequestID(ctx))
}

func TestWithCustomerID(t *testing.T) {
	ctx, logger := WithCustomerID(context.Background(), zap.NewNop(), "cust-456")
	assert.NotNil(t, logger)
	assert.Equal(t, "cust-456", GetCustomerID(ctx))
}

func TestWithActorID(t *testing.T) {
	ctx, logger := WithActorID(context.Background(), zap.NewNop(), "actor-789")
	assert.NotNil(t, logger)
	assert.Equal(t, "actor-789", GetActorID(ctx))
}

func TestGetters_NotFound(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetCustomerID(ctx))
	assert.Empty(t, GetActorID(ctx))
}

func TestChainedEnrichment(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	ctx, logger = WithRequestID(ctx, logger, "req-1")
	ctx, logger = WithCustomerID(ctx, logger, "cust-1")
	ctx, _ = WithActorID(ctx, logger, "actor-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "cust-1", GetCustomerID(ctx))
	assert.Equal(t, "actor-1", GetActorID(ctx))
}

func TestL_InjectsCorrelationFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx := WithContext(context.Background(), base)
	ctx = context.WithValue(ctx, RequestIDKey, "req-abc")
	ctx = context.WithValue(ctx, CustomerIDKey, "cust-abc")

	L(ctx).Info("reconciled")

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-abc", fields["request_id"])
	assert.Equal(t, "cust-abc", fields["customer_id"])
	_, hasActor := fields["actor_id"]
	assert.False(t, hasActor)
}

func TestL_WithoutLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		L(context.Background()).Info("no-op")
	})
}
