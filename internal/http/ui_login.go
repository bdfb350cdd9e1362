package httpx

import (
	"net/http"
	"strings"
)

const defaultAfterLogin = "/dash"

func loginMeta() PageMeta {
	return PageMeta{Title: "Login - LocalAuth", PageTitle: "Login", CurrentPage: PageLogin}
}

// Login renders the login form. A browser that already holds a valid token goes straight on.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	next := safeRedirectPath(r.URL.Query().Get("r"), defaultAfterLogin)
	if tokenFromRequest(r) != "" {
		if err := h.clientFor(r).TokenValidity(r.Context()); err == nil {
			redirect(w, r, next)
			return
		}
	}
	h.renderLogin(w, r, loginForm{Next: next}, nil)
}

type loginForm struct {
	Username string
	Next     string
}

func (h *UIHandlers) renderLogin(w http.ResponseWriter, r *http.Request, form loginForm, flash *Toast) {
	data := basePageData(r, loginMeta())
	data["Form"] = form
	if flash != nil {
		data["Flash"] = flash
	}
	h.renderPage(w, r, data)
}

// LoginSubmit exchanges the submitted credentials for a token and stores it in the browser.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.notify(w, r, errorToast(msgInvalidRequest), func(flash *Toast) {
			h.renderLogin(w, r, loginForm{Next: defaultAfterLogin}, flash)
		})
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	next := safeRedirectPath(r.PostFormValue("next"), defaultAfterLogin)

	token, err := h.API.Login(r.Context(), username, password)
	if err != nil {
		h.logger().InfoContext(r.Context(), "console login failed", "username", username, "error", err)
		h.notify(w, r, loginFailureToast(err), func(flash *Toast) {
			h.renderLogin(w, r, loginForm{Username: username, Next: next}, flash)
		})
		return
	}

	setTokenCookie(w, r, tokenCookieParams{Domain: h.CookieDomain, Token: token, MaxAge: h.TokenTTL})
	redirect(w, r, next)
}

// Logout revokes the session on the API and drops the browser cookie.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if tokenFromRequest(r) != "" {
		if err := h.clientFor(r).Logout(r.Context()); err != nil {
			h.logger().DebugContext(r.Context(), "console logout: api revoke failed", "error", err)
		}
	}
	clearTokenCookie(w, r, h.CookieDomain)
	redirect(w, r, "/login")
}
