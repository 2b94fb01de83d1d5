package mailgw

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// newSessionToken wraps a bearer token issued by POST /token. Mail.gw issues
// JWTs; their exp claim becomes the token expiry. Tokens that are not JWTs
// or carry no exp never expire on the client side.
func newSessionToken(raw string) *oauth2.Token {
	return &oauth2.Token{
		AccessToken: raw,
		TokenType:   "Bearer",
		Expiry:      tokenExpiry(raw),
	}
}

func tokenExpiry(raw string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// authorization renders the Authorization header value for tok
func authorization(tok *oauth2.Token) string {
	return tok.Type() + " " + tok.AccessToken
}
