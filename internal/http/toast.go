package httpx

import (
	"net/http"
	"strings"

	"github.com/reallifegames/localauth/internal/apiclient"
)

// ToastLife is how long a toast stays on screen, in milliseconds.
const ToastLife = 4000

// Severity selects the toast style.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Color is the palette name the stylesheet uses for the severity.
func (s Severity) Color() string {
	if s == SeveritySuccess {
		return "lime"
	}
	return "ruby"
}

// Toast is a transient notification shown by the console.
type Toast struct {
	Message  string
	Severity Severity
	Life     int
}

func successToast(msg string) Toast { return Toast{Message: msg, Severity: SeveritySuccess, Life: ToastLife} }
func errorToast(msg string) Toast   { return Toast{Message: msg, Severity: SeverityError, Life: ToastLife} }

// Color is shorthand for t.Severity.Color, used by templates.
func (t Toast) Color() string { return t.Severity.Color() }

const (
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidRequest     = "Invalid request"
	msgPasswordMismatch   = "Passwords do not match"
	msgUserCreated        = "User create successfully"
	msgUserExists         = "A user with that username already exists"
	msgUserUpdated        = "User updated successfully"
	msgInternalError      = "Internal server error"
)

func loginFailureToast(err error) Toast {
	if apiclient.IsKind(err, apiclient.KindConflict) {
		return errorToast(msgInvalidCredentials)
	}
	return errorToast(msgInvalidRequest)
}

func createFailureToast(err error) Toast {
	if apiclient.IsKind(err, apiclient.KindConflict) {
		return errorToast(msgUserExists)
	}
	return errorToast(msgInvalidRequest)
}

func editFailureToast(err error) Toast {
	if apiclient.IsKind(err, apiclient.KindServerError) {
		return errorToast(msgInternalError)
	}
	return errorToast(msgInvalidRequest)
}

// triggerToast emits the showToast client event for t.
func triggerToast(w http.ResponseWriter, t Toast) {
	if w == nil || strings.TrimSpace(t.Message) == "" {
		return
	}
	life := t.Life
	if life <= 0 {
		life = ToastLife
	}
	SetHXTrigger(w, "showToast", map[string]any{
		"message": t.Message,
		"type":    string(t.Severity),
		"life":    life,
	})
}
