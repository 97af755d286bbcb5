package security_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/plantnet-backend/pkg/config"
	"github.com/angelmondragon/plantnet-backend/pkg/security"
)

func testHashConfig() config.HashConfig {
	return config.HashConfig{
		ArgonMemoryKB:    64,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifySecret(t *testing.T) {
	hash, err := security.HashSecret("482913", testHashConfig())
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$v=19$")
	assert.NotContains(t, hash, "482913")

	ok, err := security.VerifySecret("482913", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = security.VerifySecret("482914", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashSecretRejectsEmpty(t *testing.T) {
	_, err := security.HashSecret("", testHashConfig())
	assert.Error(t, err)
}

func TestVerifySecretBadHash(t *testing.T) {
	for _, encoded := range []string{"not-a-hash", "$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA", "$argon2id$v=19$$c2FsdA$aGFzaA"} {
		_, err := security.VerifySecret("irrelevant", encoded)
		assert.ErrorIs(t, err, security.ErrInvalidHash, encoded)
	}
}

func TestGenerateNumericCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := security.GenerateNumericCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}

	_, err := security.GenerateNumericCode(0)
	assert.Error(t, err)
}
