package contextutil_test

import (
	"context"
	"testing"

	"github.com/MichelleArumemi/EmployeeMS/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestAndUserID(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-1")
	ctx = contextutil.WithUserID(ctx, "user-1")

	assert.Equal(t, "rid-1", contextutil.GetRequestID(ctx))
	assert.Equal(t, "user-1", contextutil.GetUserID(ctx))
	assert.Empty(t, contextutil.GetUserID(context.Background()))
}

func TestGetLogger(t *testing.T) {
	t.Run("falls back to default", func(t *testing.T) {
		def := zap.NewExample()

		assert.Same(t, def, contextutil.GetLogger(context.Background(), def))
	})

	t.Run("never nil", func(t *testing.T) {
		assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
	})

	t.Run("prefers scoped logger", func(t *testing.T) {
		scoped := zap.NewExample()
		ctx := contextutil.WithLogger(context.Background(), scoped)

		assert.Same(t, scoped, contextutil.GetLogger(ctx, zap.NewNop()))
	})
}

func TestDetach(t *testing.T) {
	parent, cancel := context.WithCancel(contextutil.WithRequestID(context.Background(), "rid-2"))
	detached := contextutil.Detach(parent)
	cancel()

	assert.NoError(t, detached.Err())
	assert.Equal(t, "rid-2", contextutil.GetRequestID(detached))
}
