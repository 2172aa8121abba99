package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	assert.True(t, Verify("correct horse battery staple", encoded))
	assert.False(t, Verify("wrong password", encoded))
}

func TestVerify_MalformedHash(t *testing.T) {
	assert.False(t, Verify("anything", ""))
	assert.False(t, Verify("anything", "$argon2id$v=19$m=65536,t=1$short"))
	assert.False(t, Verify("anything", "$bcrypt$v=19$m=65536,t=1,p=4$a$b"))
}
