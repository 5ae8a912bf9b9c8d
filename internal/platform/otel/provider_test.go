package otel_test

import (
	"context"
	"testing"

	"github.com/ironcrown/realmforge/internal/platform/otel"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("REALMFORGE_OTEL_ENDPOINT", "")
	t.Setenv("REALMFORGE_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "test-worker")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("REALMFORGE_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("REALMFORGE_OTEL_ENABLED", "false")

	shutdown, err := otel.Setup(context.Background(), "test-worker")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	t.Setenv("REALMFORGE_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("REALMFORGE_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "test-worker")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
