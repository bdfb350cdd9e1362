package apiclient

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := &Error{Op: "users", Kind: KindForbidden, Status: 403}

	assert.Equal(t, KindForbidden, KindOf(base))
	assert.Equal(t, KindForbidden, KindOf(fmt.Errorf("wrapped: %w", base)))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.False(t, IsKind(nil, KindUnknown))
}

func TestError_Message(t *testing.T) {
	err := &Error{Op: "login", Kind: KindConflict, Status: 409, Err: errors.New("Conflict")}
	assert.Equal(t, "apiclient login: conflict (status 409): Conflict", err.Error())

	err = &Error{Op: "dash", Kind: KindNetwork}
	assert.Equal(t, "apiclient dash: network", err.Error())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "server_error", KindServerError.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
