package services_test

import (
	"context"
	"testing"

	"vidnotes/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithVideoID(ctx, "dQw4w9WgXcQ")
	ctx = services.WithChannel(ctx, "somecreator")
	ctx = services.WithStage(ctx, "transcribe")
	ctx = services.WithRunID(ctx, "run-1")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.VideoIDFromContext(ctx); !ok || id != "dQw4w9WgXcQ" {
		t.Fatalf("unexpected video id: %v %v", id, ok)
	}
	if ch, ok := services.ChannelFromContext(ctx); !ok || ch != "somecreator" {
		t.Fatalf("unexpected channel: %v %v", ch, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "transcribe" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if run, ok := services.RunIDFromContext(ctx); !ok || run != "run-1" {
		t.Fatalf("unexpected run id: %v %v", run, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithVideoID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.VideoIDFromContext(ctx); ok {
		t.Fatal("expected no video id value")
	}
}
