package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

type userKeyType struct{}

var userKey userKeyType

type User struct {
	Username     string
	Organization string
	Token        *jwt.Token
}

func UserFromContext(ctx context.Context) (User, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return User{}, false
	}
	return val.(User), true
}

// MustHaveUser is for handlers running behind the authenticator middleware,
// where a missing user is a programming error.
func MustHaveUser(ctx context.Context) User {
	user, ok := UserFromContext(ctx)
	if !ok {
		panic("no user found in context")
	}
	return user
}

func NewUserContext(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey, u)
}
