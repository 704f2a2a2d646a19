package services

import (
	"context"
	"testing"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1234")
	id, ok := RunIDFromContext(ctx)
	if !ok || id != "run-1234" {
		t.Fatalf("expected run-1234, got %q ok=%v", id, ok)
	}
}

func TestStageRoundTrip(t *testing.T) {
	ctx := WithStage(context.Background(), "scoring")
	stage, ok := StageFromContext(ctx)
	if !ok || stage != "scoring" {
		t.Fatalf("expected scoring, got %q ok=%v", stage, ok)
	}
}

func TestEmptyValuesIgnored(t *testing.T) {
	ctx := WithRunID(context.Background(), "")
	if _, ok := RunIDFromContext(ctx); ok {
		t.Fatal("empty run ID should not be stored")
	}
	ctx = WithStage(context.Background(), "")
	if _, ok := StageFromContext(ctx); ok {
		t.Fatal("empty stage should not be stored")
	}
}
