package httpx

import (
	"net/http"

	domainauth "github.com/reallifegames/localauth/internal/domain/auth"
)

// Dash renders the tile dashboard for any signed-in user.
func (h *UIHandlers) Dash(w http.ResponseWriter, r *http.Request) {
	var tiles []domainauth.Tile
	state := dashGate(&tiles).Run(r.Context(), h.clientFor(r))
	renderGated(w, r, state, func() {
		data := basePageData(r, PageMeta{Title: "Dashboard - LocalAuth", PageTitle: "Dashboard", CurrentPage: PageDash})
		data["Tiles"] = tiles
		h.renderPage(w, r, data)
	})
}

// Management links to the admin screens.
func (h *UIHandlers) Management(w http.ResponseWriter, r *http.Request) {
	state := managementGate.Run(r.Context(), h.clientFor(r))
	renderGated(w, r, state, func() {
		h.renderPage(w, r, basePageData(r, PageMeta{
			Title:       "App Management - LocalAuth",
			PageTitle:   "App Management",
			CurrentPage: PageManagement,
		}))
	})
}
