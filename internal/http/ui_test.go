package httpx

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reallifegames/localauth/internal/apiclient"
)

// fakeAPI is a scripted /api/v1 backend that records every call it receives.
type fakeAPI struct {
	mu     sync.Mutex
	calls  []string
	bodies map[string][]byte
	routes map[string]http.HandlerFunc
	srv    *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{routes: map[string]http.HandlerFunc{}, bodies: map[string][]byte{}}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls = append(f.calls, key)
		f.bodies[key] = body
		h, ok := f.routes[key]
		f.mu.Unlock()
		if !ok {
			writeStatus(w, http.StatusNotFound)
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) on(key string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[key] = h
}

func (f *fakeAPI) status(key string, code int) {
	f.on(key, func(w http.ResponseWriter, _ *http.Request) {
		if code == http.StatusOK {
			WriteJSON(w, code, apiEnvelope(nil))
			return
		}
		writeStatus(w, code)
	})
}

func (f *fakeAPI) ok(key string, fields map[string]any) {
	f.on(key, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, apiEnvelope(fields))
	})
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Body(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[key]
}

func newConsole(t *testing.T, api *fakeAPI) *UIHandlers {
	t.Helper()
	client, err := apiclient.New(apiclient.Config{BaseURL: api.srv.URL})
	require.NoError(t, err)
	return &UIHandlers{
		T:        RequireTemplateRenderer(t),
		API:      client,
		TokenTTL: time.Hour,
		Logger:   discardLogger(),
	}
}

type consoleCall struct {
	method string
	target string
	form   url.Values
	htmx   bool
	token  string
}

func (c consoleCall) request() *http.Request {
	var r *http.Request
	if c.form != nil {
		r = httptest.NewRequest(c.method, c.target, strings.NewReader(c.form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(c.method, c.target, nil)
	}
	if c.htmx {
		r.Header.Set("Hx-Request", "true")
	}
	if c.token != "" {
		r.AddCookie(&http.Cookie{Name: TokenCookie, Value: c.token})
	}
	return r
}

func serve(h http.HandlerFunc, c consoleCall) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, c.request())
	return rec
}

func toastFrom(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	raw := rec.Header().Get("Hx-Trigger")
	require.NotEmpty(t, raw, "expected a toast trigger")
	var events map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &events))
	toast, ok := events["showToast"]
	require.True(t, ok, "no showToast event in %s", raw)
	return toast
}

func TestInterleaveSeparators(t *testing.T) {
	link := func(n string) userLink { return userLink{Username: n, Href: editUserHref(n)} }

	assert.Nil(t, interleaveSeparators(nil))

	one := interleaveSeparators([]userLink{link("a")})
	require.Len(t, one, 1)
	assert.False(t, one[0].Separator)

	three := interleaveSeparators([]userLink{link("a"), link("b"), link("c")})
	require.Len(t, three, 5)
	for i, e := range three {
		assert.Equal(t, i%2 == 1, e.Separator, "entry %d", i)
	}
	assert.Equal(t, "c", three[4].Link.Username)
}

func TestEditUserHref(t *testing.T) {
	assert.Equal(t, "/editUser?u=alice", editUserHref("alice"))
	assert.Equal(t, "/editUser?u=a+b%26c", editUserHref("a b&c"))
}

func TestUI_Login(t *testing.T) {
	t.Run("renders form without probing when no cookie", func(t *testing.T) {
		api := newFakeAPI(t)
		h := newConsole(t, api)

		rec := serve(h.Login, consoleCall{method: http.MethodGet, target: "/login"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `action="/login"`)
		assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
		assert.Empty(t, api.Calls())
	})

	t.Run("valid session skips the form", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("GET /api/v1/tokenValidity", http.StatusOK)
		h := newConsole(t, api)

		rec := serve(h.Login, consoleCall{method: http.MethodGet, target: "/login", token: "tok"})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dash", rec.Header().Get("Location"))
	})

	t.Run("stale session shows the form", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("GET /api/v1/tokenValidity", http.StatusUnauthorized)
		h := newConsole(t, api)

		rec := serve(h.Login, consoleCall{method: http.MethodGet, target: "/login?r=//evil.example", token: "tok"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `name="next" value="/dash"`)
	})

	t.Run("submit success stores cookie and redirects", func(t *testing.T) {
		api := newFakeAPI(t)
		api.on("POST /api/v1/login", func(w http.ResponseWriter, _ *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: TokenCookie, Value: "tok123", Path: "/"})
			WriteJSON(w, http.StatusOK, map[string]any{"api": map[string]any{"version": "v1"}, "success": true})
		})
		h := newConsole(t, api)

		form := url.Values{"username": {"alice"}, "password": {"pw"}, "next": {"/management"}}
		rec := serve(h.LoginSubmit, consoleCall{method: http.MethodPost, target: "/login", form: form, htmx: true})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "/management", rec.Header().Get("Hx-Redirect"))
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "tok123", cookies[0].Value)
		assert.Equal(t, 3600, cookies[0].MaxAge)
		assert.True(t, cookies[0].HttpOnly)
		assert.JSONEq(t, `{"username":"alice","password":"pw"}`, string(api.Body("POST /api/v1/login")))
	})

	t.Run("submit conflict toasts invalid credentials", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("POST /api/v1/login", http.StatusConflict)
		h := newConsole(t, api)

		form := url.Values{"username": {"alice"}, "password": {"bad"}}
		rec := serve(h.LoginSubmit, consoleCall{method: http.MethodPost, target: "/login", form: form, htmx: true})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Header().Get("Hx-Redirect"))
		assert.Empty(t, rec.Result().Cookies())
		toast := toastFrom(t, rec)
		assert.Equal(t, "Invalid credentials", toast["message"])
		assert.Equal(t, "error", toast["type"])
		assert.Equal(t, float64(4000), toast["life"])
	})

	t.Run("submit bad request toasts invalid request", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("POST /api/v1/login", http.StatusBadRequest)
		h := newConsole(t, api)

		rec := serve(h.LoginSubmit, consoleCall{method: http.MethodPost, target: "/login", form: url.Values{}, htmx: true})
		assert.Equal(t, "Invalid request", toastFrom(t, rec)["message"])
	})

	t.Run("plain form failure re-renders with flash", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("POST /api/v1/login", http.StatusConflict)
		h := newConsole(t, api)

		form := url.Values{"username": {"alice"}, "password": {"bad"}}
		rec := serve(h.LoginSubmit, consoleCall{method: http.MethodPost, target: "/login", form: form})
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.True(t, ContainsAll(body, []string{"Invalid credentials", "flash-ruby", `value="alice"`}), body)
	})
}

func TestUI_Logout(t *testing.T) {
	api := newFakeAPI(t)
	api.status("POST /api/v1/logout", http.StatusOK)
	h := newConsole(t, api)

	rec := serve(h.Logout, consoleCall{method: http.MethodPost, target: "/logout", token: "tok"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, []string{"POST /api/v1/logout"}, api.Calls())
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Negative(t, rec.Result().Cookies()[0].MaxAge)
}

func TestUI_Dash(t *testing.T) {
	t.Run("invalid token redirects to login", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("GET /api/v1/dash", http.StatusUnauthorized)
		h := newConsole(t, api)

		rec := serve(h.Dash, consoleCall{method: http.MethodGet, target: "/dash"})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		assert.Equal(t, []string{"GET /api/v1/dash"}, api.Calls())
	})

	t.Run("tile fetch failure redirects to login", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("GET /api/v1/dash", http.StatusInternalServerError)
		h := newConsole(t, api)

		rec := serve(h.Dash, consoleCall{method: http.MethodGet, target: "/dash", htmx: true, token: "tok"})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Hx-Redirect"))
	})

	t.Run("renders tiles and management link", func(t *testing.T) {
		api := newFakeAPI(t)
		api.ok("GET /api/v1/dash", map[string]any{"endpoints": []string{
			`{"displayText":"Wiki","link":"/wiki","cssClasses":"tile-blue"}`,
			`{"displayText":"Mail","link":"https://mail.example.com","cssClasses":""}`,
		}})
		h := newConsole(t, api)

		rec := serve(h.Dash, consoleCall{method: http.MethodGet, target: "/dash", token: "tok"})
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.True(t, ContainsAll(body, []string{
			`href="/wiki"`, "Wiki", "tile-blue",
			`href="https://mail.example.com"`, "Mail",
			`href="/management"`, "App Management",
		}), body)
		assert.Less(t, strings.Index(body, "Wiki"), strings.Index(body, "Mail"))
		assert.Equal(t, []string{"GET /api/v1/dash"}, api.Calls(), "the tile fetch is the only gating request")
	})

	t.Run("htmx gets only the content", func(t *testing.T) {
		api := newFakeAPI(t)
		api.ok("GET /api/v1/dash", map[string]any{"endpoints": []string{}})
		h := newConsole(t, api)

		rec := serve(h.Dash, consoleCall{method: http.MethodGet, target: "/dash", htmx: true, token: "tok"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "<title>Dashboard - LocalAuth</title>"))
		assert.NotContains(t, rec.Body.String(), "<!DOCTYPE html>")
	})
}

func TestUI_Management(t *testing.T) {
	t.Run("non admin redirects to login", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("GET /api/v1/adminStatus", http.StatusForbidden)
		h := newConsole(t, api)

		rec := serve(h.Management, consoleCall{method: http.MethodGet, target: "/management", token: "tok"})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("admin sees links", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("GET /api/v1/adminStatus", http.StatusOK)
		h := newConsole(t, api)

		rec := serve(h.Management, consoleCall{method: http.MethodGet, target: "/management", token: "tok"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, ContainsAll(rec.Body.String(), []string{
			`href="/createUser"`, `href="/editUsers"`, `href="/dash"`,
		}))
	})
}

func TestUI_CreateUser(t *testing.T) {
	t.Run("non admin falls back to dash", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("GET /api/v1/adminStatus", http.StatusForbidden)
		h := newConsole(t, api)

		rec := serve(h.CreateUser, consoleCall{method: http.MethodGet, target: "/createUser", token: "tok"})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dash", rec.Header().Get("Location"))
	})

	t.Run("api unreachable falls back to dash", func(t *testing.T) {
		api := newFakeAPI(t)
		h := newConsole(t, api)
		api.srv.Close()

		rec := serve(h.CreateUser, consoleCall{method: http.MethodGet, target: "/createUser", token: "tok"})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dash", rec.Header().Get("Location"))
	})

	t.Run("admin sees form", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("GET /api/v1/adminStatus", http.StatusOK)
		h := newConsole(t, api)

		rec := serve(h.CreateUser, consoleCall{method: http.MethodGet, target: "/createUser", token: "tok"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `name="confirmPassword"`)
	})

	t.Run("password mismatch makes no call", func(t *testing.T) {
		api := newFakeAPI(t)
		h := newConsole(t, api)

		form := url.Values{"username": {"carol"}, "password": {"a"}, "confirmPassword": {"b"}}
		rec := serve(h.CreateUserSubmit, consoleCall{method: http.MethodPost, target: "/createUser", form: form, htmx: true})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "Passwords do not match", toastFrom(t, rec)["message"])
		assert.Empty(t, api.Calls())
	})

	t.Run("success clears the form", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("POST /api/v1/createUser", http.StatusOK)
		h := newConsole(t, api)

		form := url.Values{"username": {"carol"}, "password": {"pw"}, "confirmPassword": {"pw"}}
		rec := serve(h.CreateUserSubmit, consoleCall{method: http.MethodPost, target: "/createUser", form: form, htmx: true, token: "tok"})
		require.Equal(t, http.StatusOK, rec.Code)
		toast := toastFrom(t, rec)
		assert.Equal(t, "User create successfully", toast["message"])
		assert.Equal(t, "success", toast["type"])
		assert.NotContains(t, rec.Body.String(), "carol")
		assert.JSONEq(t, `{"username":"carol","password":"pw"}`, string(api.Body("POST /api/v1/createUser")))
	})

	t.Run("repeated success gives the same result", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("POST /api/v1/createUser", http.StatusOK)
		h := newConsole(t, api)

		form := url.Values{"username": {"carol"}, "password": {"pw"}, "confirmPassword": {"pw"}}
		call := consoleCall{method: http.MethodPost, target: "/createUser", form: form, htmx: true, token: "tok"}
		first := serve(h.CreateUserSubmit, call)
		second := serve(h.CreateUserSubmit, call)

		require.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, first.Code, second.Code)
		assert.Equal(t, toastFrom(t, first), toastFrom(t, second))
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.NotContains(t, second.Body.String(), "carol")
		assert.Equal(t, []string{"POST /api/v1/createUser", "POST /api/v1/createUser"}, api.Calls())
	})

	t.Run("conflict keeps the fields", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("POST /api/v1/createUser", http.StatusConflict)
		h := newConsole(t, api)

		form := url.Values{"username": {"carol"}, "password": {"pw"}, "confirmPassword": {"pw"}}
		rec := serve(h.CreateUserSubmit, consoleCall{method: http.MethodPost, target: "/createUser", form: form, token: "tok"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, ContainsAll(rec.Body.String(), []string{
			"A user with that username already exists", `value="carol"`,
		}))
	})

	t.Run("other failure is invalid request", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("POST /api/v1/createUser", http.StatusForbidden)
		h := newConsole(t, api)

		form := url.Values{"username": {"carol"}, "password": {"pw"}, "confirmPassword": {"pw"}}
		rec := serve(h.CreateUserSubmit, consoleCall{method: http.MethodPost, target: "/createUser", form: form, htmx: true, token: "tok"})
		assert.Equal(t, "Invalid request", toastFrom(t, rec)["message"])
	})
}

func TestUI_EditUsers(t *testing.T) {
	t.Run("fetch failure redirects to login", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("GET /api/v1/users", http.StatusUnauthorized)
		h := newConsole(t, api)

		rec := serve(h.EditUsers, consoleCall{method: http.MethodGet, target: "/editUsers"})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("links separated once", func(t *testing.T) {
		api := newFakeAPI(t)
		api.ok("GET /api/v1/users", map[string]any{"usernameList": []string{"alice", "bob", "carol"}})
		h := newConsole(t, api)

		rec := serve(h.EditUsers, consoleCall{method: http.MethodGet, target: "/editUsers", htmx: true, token: "tok"})
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Equal(t, 2, strings.Count(body, `class="separator"`))
		assert.Equal(t, 3, strings.Count(body, `class="user-link"`))
		assert.True(t, ContainsAll(body, []string{
			`href="/editUser?u=alice"`, `href="/editUser?u=bob"`, `href="/editUser?u=carol"`,
		}))
	})
}

func TestUI_EditUser(t *testing.T) {
	t.Run("missing username redirects without fetching", func(t *testing.T) {
		api := newFakeAPI(t)
		h := newConsole(t, api)

		rec := serve(h.EditUser, consoleCall{method: http.MethodGet, target: "/editUser"})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/editUsers", rec.Header().Get("Location"))
		assert.Empty(t, api.Calls())
	})

	t.Run("unknown user falls back to list", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("GET /api/v1/user/ghost", http.StatusInternalServerError)
		h := newConsole(t, api)

		rec := serve(h.EditUser, consoleCall{method: http.MethodGet, target: "/editUser?u=ghost", token: "tok"})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/editUsers", rec.Header().Get("Location"))
	})

	t.Run("renders flags", func(t *testing.T) {
		api := newFakeAPI(t)
		api.ok("GET /api/v1/user/carol", map[string]any{"username": "carol", "admin": false, "active": true})
		h := newConsole(t, api)

		rec := serve(h.EditUser, consoleCall{method: http.MethodGet, target: "/editUser?u=carol", token: "tok"})
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.True(t, ContainsAll(body, []string{
			`value="carol" readonly`,
			`<input name="active" type="checkbox" checked>`,
			`<input name="admin" type="checkbox">`,
		}), body)
	})

	t.Run("submit success", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("PATCH /api/v1/editUser", http.StatusOK)
		h := newConsole(t, api)

		form := url.Values{"username": {"carol"}, "admin": {"on"}}
		rec := serve(h.EditUserSubmit, consoleCall{method: http.MethodPost, target: "/editUser", form: form, htmx: true, token: "tok"})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "User updated successfully", toastFrom(t, rec)["message"])
		assert.JSONEq(t, `{"updateUsername":"carol","admin":true,"active":false}`, string(api.Body("PATCH /api/v1/editUser")))
	})

	t.Run("repeated submit gives the same result", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("PATCH /api/v1/editUser", http.StatusOK)
		h := newConsole(t, api)

		form := url.Values{"username": {"carol"}, "active": {"on"}}
		call := consoleCall{method: http.MethodPost, target: "/editUser", form: form, htmx: true, token: "tok"}
		first := serve(h.EditUserSubmit, call)
		second := serve(h.EditUserSubmit, call)

		assert.Equal(t, http.StatusNoContent, first.Code)
		assert.Equal(t, first.Code, second.Code)
		assert.Equal(t, toastFrom(t, first), toastFrom(t, second))
		assert.Equal(t, "User updated successfully", toastFrom(t, second)["message"])
		assert.Equal(t, []string{"PATCH /api/v1/editUser", "PATCH /api/v1/editUser"}, api.Calls())
		assert.JSONEq(t, `{"updateUsername":"carol","admin":false,"active":true}`, string(api.Body("PATCH /api/v1/editUser")))
	})

	t.Run("server error", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("PATCH /api/v1/editUser", http.StatusInternalServerError)
		h := newConsole(t, api)

		form := url.Values{"username": {"carol"}, "active": {"on"}}
		rec := serve(h.EditUserSubmit, consoleCall{method: http.MethodPost, target: "/editUser", form: form, htmx: true, token: "tok"})
		toast := toastFrom(t, rec)
		assert.Equal(t, "Internal server error", toast["message"])
		assert.Equal(t, "error", toast["type"])
	})

	t.Run("forbidden is invalid request", func(t *testing.T) {
		api := newFakeAPI(t)
		api.status("PATCH /api/v1/editUser", http.StatusForbidden)
		h := newConsole(t, api)

		form := url.Values{"username": {"carol"}}
		rec := serve(h.EditUserSubmit, consoleCall{method: http.MethodPost, target: "/editUser", form: form, htmx: true, token: "tok"})
		assert.Equal(t, "Invalid request", toastFrom(t, rec)["message"])
	})
}

func TestUI_NotFound(t *testing.T) {
	h := &UIHandlers{T: RequireTemplateRenderer(t)}
	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404")
}
