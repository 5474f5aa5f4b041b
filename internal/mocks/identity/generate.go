// Package identity provides test doubles for the identity platform ports.
//
// FakePlatform and FakeClient are hand-written, scriptable doubles that count
// calls and deliver auth-state notifications like a real adapter.
// MockIdentityClient and MockIdentityPlatform are generated with gomock for
// tests that assert exact call expectations.
//
// To regenerate the gomock mocks after interface changes, run:
//
//	go generate ./internal/mocks/...
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	client := identity.NewMockIdentityClient(ctrl)
//	client.EXPECT().SignInAnonymously(gomock.Any()).Return(principal, nil).Times(1)
package identity

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=identity -destination=identity_mock.go github.com/target/folio/internal/ports IdentityClient,IdentityPlatform
