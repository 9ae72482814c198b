package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, Verify("hunter2", hash))
	assert.False(t, Verify("hunter3", hash))
}

func TestSentinelNeverVerifies(t *testing.T) {
	assert.False(t, Verify(SentinelOAuth, SentinelOAuth))
	assert.False(t, Verify("", SentinelOAuth))
}
