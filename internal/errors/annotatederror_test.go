package errors_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stegangeorgiev/fitness-app/internal/errors"
	"github.com/stegangeorgiev/fitness-app/internal/testhelpers"
)

func TestAnnotatedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "sentinel",
			err:  errors.NewSentinel("catalog is empty"),
			want: "catalog is empty",
		},
		{
			name: "wrapped with attributes",
			err:  errors.Wrap(errors.NewSentinel("catalog is empty"), "load catalog", slog.String("path", "x.yaml")),
			want: "load catalog: catalog is empty",
		},
		{
			name: "nested",
			err: errors.Wrap(
				errors.Wrap(errors.NewSentinel("timeout"), "chat completion"),
				"generate program",
			),
			want: "generate program: chat completion: timeout",
		},
		{
			name: "new",
			err:  errors.New("unknown workout type"),
			want: "unknown workout type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := errors.Wrap(nil, "nothing to wrap"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestIsAndAs(t *testing.T) {
	root := errors.NewSentinel("ai unavailable")
	wrapped := errors.Wrap(fmt.Errorf("probe: %w", root), "readiness")

	if !errors.Is(wrapped, root) {
		t.Errorf("Is() = false, want true for wrapped error")
	}
	if errors.Is(wrapped, errors.NewSentinel("ai unavailable")) {
		t.Errorf("Is() = true, want false for a different sentinel with the same text")
	}

	custom := &customError{"custom"}
	var target *customError
	if !errors.As(errors.Wrap(custom, "context"), &target) {
		t.Fatalf("As() = false, want true")
	}
	if target != custom {
		t.Errorf("As() target = %v, want %v", target, custom)
	}
}

func TestSlogError(t *testing.T) {
	_, file, line, _ := runtime.Caller(0)
	err := errors.Wrap(errors.NewSentinel("root cause"), "context", slog.String("key", "value"), slog.Duration("duration", time.Second))
	var buf bytes.Buffer
	l := testhelpers.NewLogger(&buf)
	l.Info("test", errors.SlogError(err))
	logLine := buf.String()

	wantSource := file[strings.LastIndex(file, "/")+1:] + ":" + strconv.Itoa(line+1)
	for _, content := range []string{
		"error.message=\"context: root cause\"",
		"error.annotations.key=value",
		"error.annotations.duration=1s",
		wantSource,
	} {
		if !strings.Contains(logLine, content) {
			t.Errorf("expected log line %s to contain %s", logLine, content)
		}
	}
	if strings.Contains(logLine, "annotatederror.go") {
		t.Fatal("expected annotatederror.go NOT to be in log line")
	}

	// None of these may panic.
	errors.SlogError(errors.Join(nil, nil, errors.NewSentinel("sentinel"), errors.New("test")))
	errors.SlogError(nil)
	errors.SlogError(fmt.Errorf("test: %w", errors.NewSentinel("sentinel")))
	errors.SlogError(errors.Join(errors.NewSentinel("sentinel1"), errors.NewSentinel("sentinel2")))
	errors.SlogError(errors.Wrap(errors.Join(nil, nil), "wrap error"))
}

func TestDecoratePanic(t *testing.T) {
	var panicLine int
	defer func() {
		err := errors.DecoratePanic(recover())
		if err == nil {
			t.Fatal("expected error")
		}
		if got, want := err.Error(), "panic: boom"; got != want {
			t.Errorf("err.Error(): got %q, want %q", got, want)
		}
		want := "annotatederror_test.go:" + strconv.Itoa(panicLine+1)
		if got := errors.SlogError(err).String(); !strings.Contains(got, want) {
			t.Errorf("SlogError: expected %q to contain %q", got, want)
		}
	}()
	_, _, panicLine, _ = runtime.Caller(0)
	panic("boom")
}

func TestDecoratePanicNothingRecovered(t *testing.T) {
	if err := errors.DecoratePanic(nil); err != nil {
		t.Errorf("DecoratePanic(nil) = %v, want nil", err)
	}
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
