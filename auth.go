package library

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// bearerPrefix is the scheme expected on the Authorization header
const bearerPrefix = "Bearer "

// Claims is the payload embedded in every issued token. There is no expiry
// claim; tokens stay valid until the signing secret changes.
type Claims struct {
	Username string `json:"username"`
	ID       string `json:"id"`
	jwt.RegisteredClaims
}

// Auth signs and verifies the bearer tokens issued by the login mutation.
type Auth struct {
	secret []byte
}

// NewAuth creates an Auth using the given shared signing secret.
func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// Sign issues a token embedding the user's username and identifier.
func (a *Auth) Sign(user *User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username: user.Username,
		ID:       user.ID,
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", errors.Wrap(err, "unable to sign token")
	}
	return signed, nil
}

// Verify parses and validates a token string and returns its claims.
func (a *Auth) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token carries no valid claims")
	}
	return claims, nil
}

// UserFromHeader resolves the current user from the value of the
// Authorization header. An absent header, or one using a different scheme,
// simply means there is no current user. A present bearer token that fails
// verification is an error; the transport fails the whole request rather than
// silently downgrading it to anonymous.
func (a *Auth) UserFromHeader(ctx context.Context, store Store, header string) (*User, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, nil
	}

	claims, err := a.Verify(strings.TrimPrefix(header, bearerPrefix))
	if err != nil {
		return nil, err
	}

	user, err := store.UserByID(ctx, claims.ID)
	if err != nil {
		return nil, errors.Wrap(err, "unable to resolve token user")
	}
	return user, nil
}
