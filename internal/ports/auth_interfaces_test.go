package ports_test

import (
	"testing"

	"github.com/reallifegames/localauth/internal/adapters/memory"
	redisadapter "github.com/reallifegames/localauth/internal/adapters/redis"
	"github.com/reallifegames/localauth/internal/data"
	"github.com/reallifegames/localauth/internal/mocks"
	"github.com/reallifegames/localauth/internal/ports"
)

// This test only verifies that implementations conform to the ports at compile time.
func TestImplementationsSatisfyPorts(t *testing.T) {
	t.Helper()

	var _ ports.UserRepository = (*data.UserRepo)(nil)
	var _ ports.DashRepository = (*data.DashRepo)(nil)
	var _ ports.TokenDenylist = (*memory.TokenDenylist)(nil)
	var _ ports.TokenDenylist = (*redisadapter.TokenDenylist)(nil)

	var _ ports.UserRepository = (*mocks.MockUserRepository)(nil)
	var _ ports.DashRepository = (*mocks.MockDashRepository)(nil)
	var _ ports.TokenDenylist = (*mocks.MockTokenDenylist)(nil)
}
