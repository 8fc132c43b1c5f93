package tracing

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"go.opentelemetry.io/otel"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestCollectorURL(t *testing.T) {
	c := qt.New(t)

	tests := []struct{ in, want string }{
		{"", ""},
		{"  ", ""},
		{"collector:4318", "http://collector:4318"},
		{"http://collector:4318", "http://collector:4318"},
		{"https://otel.example.com/v1/traces", "https://otel.example.com/v1/traces"},
	}
	for _, tt := range tests {
		c.Check(collectorURL(tt.in), qt.Equals, tt.want, qt.Commentf("%q", tt.in))
	}
}

func TestInitDisabledWithoutEndpoint(t *testing.T) {
	c := qt.New(t)

	shutdown, err := Init(context.Background(), discard(), "", "taskboard", "test")
	c.Assert(err, qt.IsNil)
	c.Assert(shutdown(context.Background()), qt.IsNil)
}

func TestInitAcceptsURLEndpoint(t *testing.T) {
	c := qt.New(t)
	prev := otel.GetTracerProvider()
	c.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := Init(context.Background(), discard(), "http://127.0.0.1:4318", "taskboard", "test")
	c.Assert(err, qt.IsNil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	c.Assert(shutdown(ctx), qt.IsNil)
}
