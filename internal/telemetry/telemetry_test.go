package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_NoopWhenDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{ServiceName: "remic-test"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, shutdown(ctx), "noop shutdown ignores the context")
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
	}{
		{"url", "http://192.0.2.1:4318"},
		{"host port", "192.0.2.1:4318"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Non-routable address: nothing is exported, shutdown still flushes.
			shutdown, err := Setup(context.Background(), Options{ServiceName: "remic-test", Endpoint: tt.endpoint})
			require.NoError(t, err)
			assert.NoError(t, shutdown(context.Background()))
		})
	}
}

func TestExporterOptions(t *testing.T) {
	assert.Nil(t, exporterOptions(""))
	assert.Len(t, exporterOptions("http://collector:4318"), 1)
	assert.Len(t, exporterOptions("collector:4318"), 2)
}
