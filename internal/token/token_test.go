package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ebatarlar/personal-finance/internal/token"
)

var testSecret = []byte("test-secret-key-for-token-codec+")

func TestIssueAndVerify(t *testing.T) {
	codec := token.NewCodec(testSecret, 30*time.Minute, 7*24*time.Hour)

	raw, err := codec.Issue("user-1", token.KindAccess)
	require.NoError(t, err)

	claims, err := codec.Verify(raw, token.KindAccess)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, token.KindAccess, claims.Kind)
	require.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt, time.Minute)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	codec := token.NewCodec(testSecret, 30*time.Minute, 7*24*time.Hour)

	access, err := codec.Issue("user-1", token.KindAccess)
	require.NoError(t, err)
	refresh, err := codec.Issue("user-1", token.KindRefresh)
	require.NoError(t, err)

	_, err = codec.Verify(access, token.KindRefresh)
	require.ErrorIs(t, err, token.ErrInvalid)
	_, err = codec.Verify(refresh, token.KindAccess)
	require.ErrorIs(t, err, token.ErrInvalid)

	// KindAny accepts either.
	claims, err := codec.Verify(access, token.KindAny)
	require.NoError(t, err)
	require.Equal(t, token.KindAccess, claims.Kind)
}

func TestVerifyRejectsExpired(t *testing.T) {
	current := time.Now()
	codec := token.NewCodec(testSecret, 30*time.Minute, 7*24*time.Hour,
		token.WithClock(func() time.Time { return current }))

	raw, err := codec.Issue("user-1", token.KindAccess)
	require.NoError(t, err)

	_, err = codec.Verify(raw, token.KindAccess)
	require.NoError(t, err)

	current = current.Add(31 * time.Minute)
	_, err = codec.Verify(raw, token.KindAccess)
	require.ErrorIs(t, err, token.ErrInvalid)
}

func TestVerifyRejectsTamperedAndGarbage(t *testing.T) {
	codec := token.NewCodec(testSecret, 30*time.Minute, 7*24*time.Hour)
	other := token.NewCodec([]byte("a-different-secret-entirely-pad!"), 30*time.Minute, 7*24*time.Hour)

	raw, err := other.Issue("user-1", token.KindAccess)
	require.NoError(t, err)

	_, err = codec.Verify(raw, token.KindAccess)
	require.ErrorIs(t, err, token.ErrInvalid)
	_, err = codec.Verify("not.a.jwt", token.KindAccess)
	require.ErrorIs(t, err, token.ErrInvalid)
	_, err = codec.Verify("", token.KindAccess)
	require.ErrorIs(t, err, token.ErrInvalid)
}

func TestIssuePair(t *testing.T) {
	codec := token.NewCodec(testSecret, 30*time.Minute, 7*24*time.Hour)

	pair, err := codec.IssuePair("user-7")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := codec.Verify(pair.AccessToken, token.KindAccess)
	require.NoError(t, err)
	require.Equal(t, "user-7", access.Subject)

	refresh, err := codec.Verify(pair.RefreshToken, token.KindRefresh)
	require.NoError(t, err)
	require.Equal(t, "user-7", refresh.Subject)
	require.True(t, refresh.ExpiresAt.After(access.ExpiresAt))
}
