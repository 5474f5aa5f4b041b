package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/target/folio/internal/domain/auth"
)

func TestNewBadge(t *testing.T) {
	tests := []struct {
		name   string
		viewID string
		snap   domainauth.Snapshot
		want   Badge
	}{
		{
			name: "no view",
			snap: domainauth.Snapshot{Ready: true, UserID: "abc"},
			want: Badge{},
		},
		{
			name:   "initializing polls",
			viewID: "v1",
			snap:   domainauth.Snapshot{Phase: domainauth.PhaseInitializing},
			want:   Badge{ViewID: "v1", Poll: true},
		},
		{
			name:   "ready with id shows",
			viewID: "v1",
			snap:   domainauth.Snapshot{Phase: domainauth.PhaseReadyAuthenticated, Ready: true, UserID: "abc123"},
			want:   Badge{ViewID: "v1", UserID: "abc123", Show: true},
		},
		{
			name:   "ready without id stays hidden and stops polling",
			viewID: "v1",
			snap:   domainauth.Snapshot{Phase: domainauth.PhaseReadyUnauthenticated, Ready: true},
			want:   Badge{ViewID: "v1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewBadge(tt.viewID, tt.snap))
		})
	}
}
