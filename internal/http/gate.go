package httpx

import (
	"context"
	"net/http"

	"github.com/reallifegames/localauth/internal/apiclient"
	domainauth "github.com/reallifegames/localauth/internal/domain/auth"
)

// Outcome is the three-way rendering decision for a gated view.
type Outcome int

const (
	// OutcomeEmpty renders nothing; the check has not resolved.
	OutcomeEmpty Outcome = iota
	// OutcomeRedirect navigates to ViewState.Redirect.
	OutcomeRedirect
	// OutcomeAuthorized renders the view.
	OutcomeAuthorized
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRedirect:
		return "redirect"
	case OutcomeAuthorized:
		return "authorized"
	default:
		return "empty"
	}
}

// ViewState is the per-request authorization record of a gated screen.
type ViewState struct {
	Redirect   string
	Authorized bool
}

// NewViewState returns the pending state.
func NewViewState() ViewState { return ViewState{} }

// Outcome resolves the state. A redirect always wins over authorization.
func (s ViewState) Outcome() Outcome {
	switch {
	case s.Redirect != "":
		return OutcomeRedirect
	case !s.Authorized:
		return OutcomeEmpty
	default:
		return OutcomeAuthorized
	}
}

// Gate pairs a read-only capability check with the route to fall back to when it fails.
type Gate struct {
	Name     string
	Check    func(ctx context.Context, c *apiclient.Client) error
	Fallback string
}

// Run performs the check once. Any failure, whatever its kind, redirects to the fallback.
// A check cut short by the request context leaves the state pending.
func (g Gate) Run(ctx context.Context, c *apiclient.Client) ViewState {
	state := NewViewState()
	if g.Check == nil {
		state.Redirect = g.Fallback
		return state
	}
	if err := g.Check(ctx, c); err != nil {
		if ctx.Err() != nil {
			return state
		}
		state.Redirect = g.Fallback
		return state
	}
	state.Authorized = true
	return state
}

var (
	managementGate = Gate{
		Name:     "management",
		Check:    func(ctx context.Context, c *apiclient.Client) error { return c.AdminStatus(ctx) },
		Fallback: "/login",
	}
	createUserGate = Gate{
		Name:     "create_user",
		Check:    func(ctx context.Context, c *apiclient.Client) error { return c.AdminStatus(ctx) },
		Fallback: "/dash",
	}
)

// dashGate fetches the tiles as its check and keeps them in dst.
func dashGate(dst *[]domainauth.Tile) Gate {
	return Gate{
		Name: "dash",
		Check: func(ctx context.Context, c *apiclient.Client) error {
			tiles, err := c.Dash(ctx)
			if err != nil {
				return err
			}
			*dst = tiles
			return nil
		},
		Fallback: "/login",
	}
}

// usersGate fetches the username list as its check and keeps the result in dst.
func usersGate(dst *[]string) Gate {
	return Gate{
		Name: "edit_users",
		Check: func(ctx context.Context, c *apiclient.Client) error {
			names, err := c.Users(ctx)
			if err != nil {
				return err
			}
			*dst = names
			return nil
		},
		Fallback: "/login",
	}
}

// userGate fetches a single account as its check and keeps the result in dst.
func userGate(username string, dst *userView) Gate {
	return Gate{
		Name: "edit_user",
		Check: func(ctx context.Context, c *apiclient.Client) error {
			u, err := c.User(ctx, username)
			if err != nil {
				return err
			}
			*dst = userView{Username: u.Username, Admin: u.Admin, Active: u.Active}
			return nil
		},
		Fallback: "/editUsers",
	}
}

// renderGated applies the outcome of state. render is called only for authorized views.
func renderGated(w http.ResponseWriter, r *http.Request, state ViewState, render func()) {
	switch state.Outcome() {
	case OutcomeRedirect:
		redirect(w, r, state.Redirect)
	case OutcomeEmpty:
		w.WriteHeader(http.StatusNoContent)
	case OutcomeAuthorized:
		render()
	}
}
