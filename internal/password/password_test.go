package password_test

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"

	"github.com/ebatarlar/personal-finance/internal/password"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	hash, err := password.Hash("longenough1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := password.Verify("longenough1", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = password.Verify("wrong-password", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHashUsesUniqueSalts(t *testing.T) {
	first, err := password.Hash("same-password")
	require.NoError(t, err)
	second, err := password.Hash("same-password")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	ok, err := password.Verify("same-password", second)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyMalformedHash(t *testing.T) {
	cases := []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=1024,t=2$short",
		"$bcrypt$v=19$m=1024,t=2,p=8$c2FsdA$ZGlnZXN0",
		"$argon2id$v=18$m=1024,t=2,p=8$c2FsdA$ZGlnZXN0",
		"$argon2id$v=19$m=x,t=2,p=8$c2FsdA$ZGlnZXN0",
		"$argon2id$v=19$m=1024,t=2,p=8$!!!$ZGlnZXN0",
		"$argon2id$v=19$m=1024,t=2,p=8$c2FsdA$!!!",
	}
	for _, malformed := range cases {
		ok, err := password.Verify("anything", malformed)
		require.Error(t, err, "hash %q", malformed)
		require.False(t, ok)
	}
}

func TestVerifyHonorsStoredParameters(t *testing.T) {
	// A hash produced with older, cheaper parameters still verifies because
	// the hash string is self-describing.
	salt := []byte("somesalt01234567")
	sum := argon2.IDKey([]byte("legacy-password"), salt, 1, 8, 1, 32)
	legacy := fmt.Sprintf("$argon2id$v=%d$m=8,t=1,p=1$%s$%s",
		argon2.Version,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	)

	ok, err := password.Verify("legacy-password", legacy)
	require.NoError(t, err)
	require.True(t, ok)
}
