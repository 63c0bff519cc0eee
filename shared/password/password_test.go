package password_test

import (
	"testing"
	"tably/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NotEqual(t, "s3cret-pass", hash)
	assert.NoError(t, password.Verify("s3cret-pass", hash))
}

func TestVerify_WrongPassword(t *testing.T) {
	hash, err := password.Hash("s3cret-pass")
	require.NoError(t, err)

	err = password.Verify("not-the-password", hash)

	assert.ErrorIs(t, err, password.ErrInvalidPassword)
}

func TestHash_EmptyPassword(t *testing.T) {
	_, err := password.Hash("")

	assert.Error(t, err)
}

func TestVerify_EmptyInputs(t *testing.T) {
	assert.ErrorIs(t, password.Verify("", "some-hash"), password.ErrInvalidPassword)
	assert.ErrorIs(t, password.Verify("some-pass", ""), password.ErrInvalidPassword)
}

func TestHash_ProducesDistinctSalts(t *testing.T) {
	first, err := password.Hash("same-input")
	require.NoError(t, err)

	second, err := password.Hash("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
