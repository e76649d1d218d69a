package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	keyfunc "github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// JWTAuthenticator validates bearer tokens against the JWKS of the council's
// identity provider and scopes every request to the token's organization.
type JWTAuthenticator struct {
	keyFn func(t *jwt.Token) (any, error)
}

func NewJWTAuthenticatorWithKeyFn(keyFn func(t *jwt.Token) (any, error)) (*JWTAuthenticator, error) {
	return &JWTAuthenticator{keyFn: keyFn}, nil
}

func NewJWTAuthenticator(jwkCertURL string) (*JWTAuthenticator, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	k, err := keyfunc.NewDefaultCtx(ctx, []string{jwkCertURL})
	if err != nil {
		return nil, fmt.Errorf("failed to get identity provider public keys: %w", err)
	}

	return &JWTAuthenticator{keyFn: k.Keyfunc}, nil
}

func (a *JWTAuthenticator) Authenticate(token string) (User, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name}), jwt.WithIssuedAt(), jwt.WithExpirationRequired())
	t, err := parser.Parse(token, a.keyFn)
	if err != nil {
		return User{}, fmt.Errorf("failed to authenticate token: %w", err)
	}

	if !t.Valid {
		return User{}, fmt.Errorf("failed to parse or validate token")
	}

	return a.parseToken(t)
}

func (a *JWTAuthenticator) parseToken(userToken *jwt.Token) (User, error) {
	claims, ok := userToken.Claims.(jwt.MapClaims)
	if !ok {
		return User{}, errors.New("failed to parse jwt token claims")
	}

	username, ok := claims["preferred_username"].(string)
	if !ok {
		return User{}, errors.New("token has no preferred_username claim")
	}
	orgID, ok := claims["org_id"].(string)
	if !ok {
		return User{}, errors.New("token has no org_id claim")
	}

	return User{
		Username:     username,
		Organization: orgID,
		Token:        userToken,
	}, nil
}

func (a *JWTAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken := r.Header.Get("Authorization")
		if !strings.HasPrefix(accessToken, "Bearer ") {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		user, err := a.Authenticate(strings.TrimPrefix(accessToken, "Bearer "))
		if err != nil {
			zap.S().Named("auth").Warnw("authentication failed", "error", err)
			http.Error(w, "authentication failed", http.StatusUnauthorized)
			return
		}

		ctx := NewUserContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
