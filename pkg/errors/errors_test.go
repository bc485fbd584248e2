package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "unsatisfiable range",
			err:  New(ErrCodeUnsatisfiable, "no version of %s satisfies %s", "left-pad", "^9.0.0"),
			want: "UNSATISFIABLE: no version of left-pad satisfies ^9.0.0",
		},
		{
			name: "registry fetch with cause",
			err:  Wrap(ErrCodeNetwork, errors.New("connection refused"), "fetch %s", "@types/node"),
			want: "NETWORK_ERROR: fetch @types/node: connection refused",
		},
		{
			name: "rejected manifest",
			err:  New(ErrCodeInvalidManifest, "unsupported manifest: %s", "Cargo.toml"),
			want: "INVALID_MANIFEST: unsupported manifest: Cargo.toml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeTimeout, context.DeadlineExceeded, "fetch react")

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("errors.Is(err, context.DeadlineExceeded) = false, want true")
	}
	if errors.Unwrap(err) != context.DeadlineExceeded {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), context.DeadlineExceeded)
	}

	// The resolver adds request context with %w; the code must survive it.
	resolved := fmt.Errorf("resolve react@^18: %w", err)
	var coded *Error
	if !errors.As(resolved, &coded) || coded.Code != ErrCodeTimeout {
		t.Errorf("errors.As(%v) = %v, want code %s", resolved, coded, ErrCodeTimeout)
	}
}

func TestIs(t *testing.T) {
	notFound := New(ErrCodeNotFound, "package not found: lefpad")

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", notFound, ErrCodeNotFound, true},
		{"other code", notFound, ErrCodeNetwork, false},
		{"behind fmt wrap", fmt.Errorf("resolve lefpad@*: %w", notFound), ErrCodeNotFound, true},
		{"outermost code wins", Wrap(ErrCodeNetwork, notFound, "fetch lefpad"), ErrCodeNotFound, false},
		{"plain error", errors.New("EOF"), ErrCodeNetwork, false},
		{"nil", nil, ErrCodeNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"invalid package name", New(ErrCodeInvalidPackage, "invalid package name: %s", "UPPER"), ErrCodeInvalidPackage},
		{"rate limited behind fmt wrap", fmt.Errorf("fetch: %w", New(ErrCodeRateLimited, "429 from registry")), ErrCodeRateLimited},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "drops code prefix",
			err:  New(ErrCodeInvalidRange, "invalid range %q", ">=1 <"),
			want: `invalid range ">=1 <"`,
		},
		{
			name: "appends cause",
			err:  Wrap(ErrCodeNetwork, errors.New("connection refused"), "fetch lodash"),
			want: "fetch lodash: connection refused",
		},
		{
			name: "innermost coded message behind fmt wrap",
			err:  fmt.Errorf("resolve left-pad@^9: %w", New(ErrCodeUnsatisfiable, "no version satisfies ^9")),
			want: "no version satisfies ^9",
		},
		{
			name: "plain error",
			err:  errors.New("unexpected EOF"),
			want: "unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
