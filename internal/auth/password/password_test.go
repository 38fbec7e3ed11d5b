package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("s3cret-password")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))
	assert.True(t, Verify("s3cret-password", encoded))
	assert.False(t, Verify("wrong-password", encoded))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("same-password")
	require.NoError(t, err)
	second, err := Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, Verify("same-password", first))
	assert.True(t, Verify("same-password", second))
}

func TestVerifyRejectsMalformed(t *testing.T) {
	assert.False(t, Verify("anything", ""))
	assert.False(t, Verify("anything", "$bcrypt$whatever"))
	assert.False(t, Verify("anything", "$argon2id$v=19$m=65536,t=1,p=4$salt"))
}
