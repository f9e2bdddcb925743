package obs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracer(t *testing.T) {
	ctx := context.Background()

	t.Run("installs a global provider and shuts down cleanly", func(t *testing.T) {
		shutdown, err := InitTracer(ctx, TracingConfig{
			ServiceName:   "storefront-dietetica",
			Endpoint:      "http://localhost:4318",
			SamplingRatio: 0.25,
			Environment:   "test",
		})
		require.NoError(t, err)
		require.NotNil(t, shutdown)
		require.NotNil(t, otel.GetTracerProvider())
		require.NoError(t, shutdown(ctx))
	})

	t.Run("empty endpoint uses exporter defaults", func(t *testing.T) {
		shutdown, err := InitTracer(ctx, TracingConfig{ServiceName: "storefront-dietetica"})
		require.NoError(t, err)
		require.NoError(t, shutdown(ctx))
	})
}
