// Package mocks provides gomock implementations of the interfaces in internal/ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	users := mocks.NewMockUserRepository(ctrl)
//	users.EXPECT().Get(gomock.Any(), "alice").Return(user, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/reallifegames/localauth/internal/ports UserRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=dash_repository_mock.go github.com/reallifegames/localauth/internal/ports DashRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_denylist_mock.go github.com/reallifegames/localauth/internal/ports TokenDenylist
