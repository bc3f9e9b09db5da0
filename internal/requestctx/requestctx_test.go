package requestctx

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Fatalf("expected req-1, got %q", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Fatalf("expected empty request id, got %q", got)
	}
}

func TestLoggerFallsBackToGlobal(t *testing.T) {
	if Logger(context.Background()) != zap.L() {
		t.Fatal("expected global logger")
	}
	l := zap.NewNop()
	if Logger(WithLogger(context.Background(), l)) != l {
		t.Fatal("expected scoped logger")
	}
}
