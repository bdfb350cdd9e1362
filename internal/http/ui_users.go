package httpx

import (
	"net/http"
	"net/url"
	"strings"
)

func createUserMeta() PageMeta {
	return PageMeta{Title: "Create User - LocalAuth", PageTitle: "Create User", CurrentPage: PageCreateUser}
}

type createUserForm struct {
	Username string
}

// CreateUser renders the account creation form for admins.
func (h *UIHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	state := createUserGate.Run(r.Context(), h.clientFor(r))
	renderGated(w, r, state, func() {
		h.renderCreateUser(w, r, createUserForm{}, nil)
	})
}

func (h *UIHandlers) renderCreateUser(w http.ResponseWriter, r *http.Request, form createUserForm, flash *Toast) {
	data := basePageData(r, createUserMeta())
	data["Form"] = form
	if flash != nil {
		data["Flash"] = flash
	}
	h.renderPage(w, r, data)
}

// CreateUserSubmit creates an account. Mismatched passwords never reach the API.
func (h *UIHandlers) CreateUserSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.notify(w, r, errorToast(msgInvalidRequest), func(flash *Toast) {
			h.renderCreateUser(w, r, createUserForm{}, flash)
		})
		return
	}
	form := createUserForm{Username: r.PostFormValue("username")}
	password := r.PostFormValue("password")
	if password != r.PostFormValue("confirmPassword") {
		h.notify(w, r, errorToast(msgPasswordMismatch), func(flash *Toast) {
			h.renderCreateUser(w, r, form, flash)
		})
		return
	}

	if err := h.clientFor(r).CreateUser(r.Context(), form.Username, password); err != nil {
		h.logger().InfoContext(r.Context(), "console create user failed", "username", form.Username, "error", err)
		h.notify(w, r, createFailureToast(err), func(flash *Toast) {
			h.renderCreateUser(w, r, form, flash)
		})
		return
	}

	toast := successToast(msgUserCreated)
	if IsHTMX(r) {
		triggerToast(w, toast)
		h.renderCreateUser(w, r, createUserForm{}, nil)
		return
	}
	h.renderCreateUser(w, r, createUserForm{}, &toast)
}

type userLink struct {
	Username string
	Href     string
}

// userListEntry is either a link or the separator between two links.
type userListEntry struct {
	Link      userLink
	Separator bool
}

// interleaveSeparators places exactly one separator between consecutive links and none at the ends.
func interleaveSeparators(links []userLink) []userListEntry {
	if len(links) == 0 {
		return nil
	}
	out := make([]userListEntry, 0, 2*len(links)-1)
	for i, l := range links {
		if i > 0 {
			out = append(out, userListEntry{Separator: true})
		}
		out = append(out, userListEntry{Link: l})
	}
	return out
}

func editUserHref(username string) string {
	return "/editUser?u=" + url.QueryEscape(username)
}

// EditUsers lists every account with a link to its edit screen.
func (h *UIHandlers) EditUsers(w http.ResponseWriter, r *http.Request) {
	var names []string
	state := usersGate(&names).Run(r.Context(), h.clientFor(r))
	renderGated(w, r, state, func() {
		links := make([]userLink, 0, len(names))
		for _, n := range names {
			links = append(links, userLink{Username: n, Href: editUserHref(n)})
		}
		data := basePageData(r, PageMeta{Title: "Edit Users - LocalAuth", PageTitle: "Edit Users", CurrentPage: PageEditUsers})
		data["Entries"] = interleaveSeparators(links)
		h.renderPage(w, r, data)
	})
}

// userView is the editable state of one account.
type userView struct {
	Username string
	Admin    bool
	Active   bool
}

func editUserMeta() PageMeta {
	return PageMeta{Title: "Edit User - LocalAuth", PageTitle: "Edit User", CurrentPage: PageEditUser}
}

// EditUser renders the flag toggles for the account named by the u query parameter.
func (h *UIHandlers) EditUser(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("u")
	if username == "" {
		redirect(w, r, "/editUsers")
		return
	}
	var view userView
	state := userGate(username, &view).Run(r.Context(), h.clientFor(r))
	renderGated(w, r, state, func() {
		h.renderEditUser(w, r, view, nil)
	})
}

func (h *UIHandlers) renderEditUser(w http.ResponseWriter, r *http.Request, view userView, flash *Toast) {
	data := basePageData(r, editUserMeta())
	data["User"] = view
	if flash != nil {
		data["Flash"] = flash
	}
	h.renderPage(w, r, data)
}

// EditUserSubmit saves the admin and active flags.
func (h *UIHandlers) EditUserSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.notify(w, r, errorToast(msgInvalidRequest), func(flash *Toast) {
			h.renderEditUser(w, r, userView{}, flash)
		})
		return
	}
	view := userView{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Admin:    checkboxValue(r.PostFormValue("admin")),
		Active:   checkboxValue(r.PostFormValue("active")),
	}
	if view.Username == "" {
		redirect(w, r, "/editUsers")
		return
	}

	toast := successToast(msgUserUpdated)
	if err := h.clientFor(r).EditUser(r.Context(), view.Username, view.Admin, view.Active); err != nil {
		h.logger().InfoContext(r.Context(), "console edit user failed", "username", view.Username, "error", err)
		toast = editFailureToast(err)
	}
	h.notify(w, r, toast, func(flash *Toast) {
		h.renderEditUser(w, r, view, flash)
	})
}

func checkboxValue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}
