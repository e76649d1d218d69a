package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

// NoneAuthenticator injects a fixed local user. Development and tests only.
type NoneAuthenticator struct{}

func NewNoneAuthenticator() (*NoneAuthenticator, error) {
	return &NoneAuthenticator{}, nil
}

func (n *NoneAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"preferred_username": "admin",
			"org_id":             "internal",
		})
		token.Raw = "local-dev-token"

		user := User{
			Username:     "admin",
			Organization: "internal",
			Token:        token,
		}
		next.ServeHTTP(w, r.WithContext(NewUserContext(r.Context(), user)))
	})
}
