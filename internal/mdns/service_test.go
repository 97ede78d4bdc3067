package mdns

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, "_offtherecord._tcp", ServiceType)
	assert.Equal(t, "v1", APIVersion)
}

func TestNewService(t *testing.T) {
	service := NewService(slog.New(slog.DiscardHandler))
	require.NotNil(t, service)
	assert.Nil(t, service.server, "server is nil before Start")
}

func TestStop_SafeWithoutStart(t *testing.T) {
	service := NewService(slog.New(slog.DiscardHandler))

	// Must not panic, repeatedly.
	service.Stop()
	service.Stop()
	assert.Nil(t, service.server)
}
