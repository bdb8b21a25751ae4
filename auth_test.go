package library

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_signVerifyRoundTrip(t *testing.T) {
	auth := NewAuth("test-secret")

	token, err := auth.Sign(&User{ID: "user-1", Username: "ada"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, "user-1", claims.ID)
}

func TestAuth_rejectsWrongSecret(t *testing.T) {
	token, err := NewAuth("test-secret").Sign(&User{ID: "user-1", Username: "ada"})
	require.NoError(t, err)

	_, err = NewAuth("other-secret").Verify(token)
	assert.Error(t, err)
}

func TestAuth_rejectsMalformedToken(t *testing.T) {
	_, err := NewAuth("test-secret").Verify("not-a-token")
	assert.Error(t, err)
}

func TestAuth_rejectsUnsignedToken(t *testing.T) {
	// a token with alg "none" must never verify, even with the right claims
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "ada", ID: "user-1"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewAuth("test-secret").Verify(token)
	assert.Error(t, err)
}

func TestUserFromHeader(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	ada := &User{Username: "ada", FavoriteGenre: "refactoring"}
	grace := &User{Username: "grace", FavoriteGenre: "compilers"}
	require.NoError(t, store.AddUser(ctx, ada))
	require.NoError(t, store.AddUser(ctx, grace))
	store.AddFriend(ada.ID, grace.ID)

	auth := NewAuth("test-secret")
	token, err := auth.Sign(ada)
	require.NoError(t, err)

	user, err := auth.UserFromHeader(ctx, store, "Bearer "+token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ada", user.Username)

	// the friends relation comes populated
	require.Len(t, user.Friends, 1)
	assert.Equal(t, "grace", user.Friends[0].Username)
}

func TestUserFromHeader_absentHeader(t *testing.T) {
	auth := NewAuth("test-secret")

	// no header means no current user, not an error
	user, err := auth.UserFromHeader(context.Background(), NewMemoryStore(), "")
	require.NoError(t, err)
	assert.Nil(t, user)

	// same for a non-bearer scheme
	user, err = auth.UserFromHeader(context.Background(), NewMemoryStore(), "Basic YWRhOnNlY3JldA==")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserFromHeader_invalidToken(t *testing.T) {
	// a present but invalid token is an error, not an anonymous request
	_, err := NewAuth("test-secret").UserFromHeader(context.Background(), NewMemoryStore(), "Bearer garbage")
	assert.Error(t, err)
}
