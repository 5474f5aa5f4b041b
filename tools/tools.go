//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// Air - Live reload while editing templates and handlers (run with DEV=true)
//   Install: go install github.com/air-verse/air@v1.63.0
//   Docs: https://github.com/air-verse/air
//
// mockgen - Regenerates internal/mocks/identity/identity_mock.go
//   Install: go install go.uber.org/mock/mockgen@v0.6.0
//   Run: go generate ./internal/mocks/...
