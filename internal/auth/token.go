package auth

import (
	"net/http"
	"strings"
	"time"
)

// AccessTokenCookie carries the session of the web dashboard.
const AccessTokenCookie = "access_token"

// ExtractAccessToken returns the caller's token. An explicit Authorization
// header (mobile app, caixactl) wins over the dashboard cookie, which a
// browser may still send after the user switched accounts.
func ExtractAccessToken(r *http.Request) string {
	if scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " "); ok &&
		strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// SessionCookie builds the dashboard cookie for a freshly issued token.
func SessionCookie(token string, expiresAt time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
