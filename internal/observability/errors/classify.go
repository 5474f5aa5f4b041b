// Package errors maps errors to short class names for metric tags.
package errors

import (
	"context"
	goerrors "errors"
	"net"
	"reflect"
	"strings"
)

// Classifier is implemented by errors that know their own metric class.
type Classifier interface {
	ErrorClass() string
}

// Classify returns a normalized error class suitable for tagging metrics.
// Errors in the chain implementing Classifier win; context and network
// timeouts map to fixed names; otherwise the innermost concrete type is used.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var c Classifier
	if goerrors.As(err, &c) {
		if class := normalize(c.ErrorClass()); class != "" {
			return class
		}
	}

	switch {
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	var netErr net.Error
	if goerrors.As(err, &netErr) {
		if netErr.Timeout() {
			return "timeout"
		}
		return "network"
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	if name := normalize(t.String()); name != "" {
		return name
	}
	return "unknown"
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("*", "", ".", "_", " ", "_", "-", "_").Replace(s)
}
