package httpx

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/reallifegames/localauth/internal/apiclient"
)

// TokenCookie carries the signed session token for both the API and the console.
const TokenCookie = apiclient.TokenCookie

// tokenFromRequest reads the token from the authToken cookie, falling back to a Bearer header.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

// isSecureRequest reports TLS termination either locally or at a proxy.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || isForwardedHTTPS(r)
}

// isForwardedHTTPS handles comma-separated X-Forwarded-Proto values.
func isForwardedHTTPS(r *http.Request) bool {
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

// tokenCookieParams groups the attributes of the authToken cookie.
type tokenCookieParams struct {
	Domain string
	Token  string
	MaxAge time.Duration
}

func setTokenCookie(w http.ResponseWriter, r *http.Request, p tokenCookieParams) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    p.Token,
		Path:     "/",
		Domain:   p.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(p.MaxAge.Seconds()),
	})
}

// clearTokenCookie mirrors the attributes used when setting the cookie so browsers drop it.
func clearTokenCookie(w http.ResponseWriter, r *http.Request, domain string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}

// safeRedirectPath returns candidate when it is a same-origin path, otherwise fallback.
func safeRedirectPath(candidate, fallback string) string {
	if candidate == "" {
		return fallback
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") ||
		strings.HasPrefix(candidate, "//") || strings.Contains(candidate, `\`) {
		return fallback
	}
	return candidate
}
