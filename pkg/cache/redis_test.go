package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/naac-sar-api/pkg/config"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "naac:iiqa:cycle", Key("iiqa", "cycle"))
	assert.Equal(t, "naac:scores:summary:2025", Key("scores", "summary", "2025"))
	assert.Equal(t, "naac:scores:*", Key("scores", "*"))
	assert.Equal(t, "naac", Key())
}

func TestNewRedisDisabled(t *testing.T) {
	client, err := NewRedis(config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, client)
}
