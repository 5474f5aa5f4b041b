package errors

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type classified struct{}

func (classified) Error() string      { return "classified" }
func (classified) ErrorClass() string { return "INVALID_CUSTOM_TOKEN" }

func TestClassify(t *testing.T) {
	syntaxErr := &json.SyntaxError{}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "classifier wins", err: fmt.Errorf("sign in: %w", classified{}), want: "invalid_custom_token"},
		{name: "canceled", err: fmt.Errorf("wrap: %w", context.Canceled), want: "canceled"},
		{name: "deadline", err: context.DeadlineExceeded, want: "timeout"},
		{name: "net op", err: &net.OpError{Op: "dial", Err: goerrors.New("refused")}, want: "network"},
		{name: "innermost type", err: fmt.Errorf("parse: %w", syntaxErr), want: "json_syntaxerror"},
		{name: "plain", err: goerrors.New("boom"), want: "errors_errorstring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
