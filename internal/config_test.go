package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Config_Defaults(t *testing.T) {
	config := SyphonConfig{}
	require.Nil(t, config.LoadFromEnv())

	assert.Equal(t, "0.0.0.0:8080", config.Rest.HostAddr)
	assert.Equal(t, "redis://localhost:6379/0", config.RedisURL)
	assert.Equal(t, "yt-dlp", config.Extractor.BinaryPath)

	assert.Equal(t, 60, config.RateLimit.WindowSeconds)
	assert.Equal(t, 20, config.RateLimit.Capacity)
	assert.True(t, config.RateLimit.FailOpen)

	assert.Equal(t, 30, config.Proxy.RequestTimeoutSeconds)
	assert.Equal(t, 10, config.Proxy.ConnectTimeoutSeconds)
	assert.Equal(t, 8192, config.Proxy.ChunkSize)
}
