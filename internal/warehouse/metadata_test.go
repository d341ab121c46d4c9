package warehouse

import (
	"context"
	"testing"
)

func TestSaveMetadataRoundTrip(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	exists, err := MetadataExists(ctx, d)
	if err != nil {
		t.Fatalf("MetadataExists: %v", err)
	}
	if exists {
		t.Error("MetadataExists = true before any save")
	}

	meta := map[string]string{
		"loaded_at":          "2026-01-02T03:04:05Z",
		"prediction_version": "seasonal_naive_v1",
		"seed":               "42",
	}
	if err := SaveMetadata(ctx, d, meta); err != nil {
		t.Fatalf("SaveMetadata: %v", err)
	}

	exists, err = MetadataExists(ctx, d)
	if err != nil {
		t.Fatalf("MetadataExists: %v", err)
	}
	if !exists {
		t.Error("MetadataExists = false after save")
	}

	got, err := GetMetadataValue(ctx, d, "seed")
	if err != nil {
		t.Fatalf("GetMetadataValue: %v", err)
	}
	if got != "42" {
		t.Errorf("seed = %q, want %q", got, "42")
	}

	all, err := GetAllMetadata(ctx, d)
	if err != nil {
		t.Fatalf("GetAllMetadata: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}
	if all["prediction_version"] != "seasonal_naive_v1" {
		t.Errorf("prediction_version = %q, want %q", all["prediction_version"], "seasonal_naive_v1")
	}
}

func TestSaveMetadataUpserts(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	if err := SaveMetadata(ctx, d, map[string]string{"seed": "1"}); err != nil {
		t.Fatalf("SaveMetadata: %v", err)
	}
	if err := SaveMetadata(ctx, d, map[string]string{"seed": "2"}); err != nil {
		t.Fatalf("SaveMetadata overwrite: %v", err)
	}

	got, err := GetMetadataValue(ctx, d, "seed")
	if err != nil {
		t.Fatalf("GetMetadataValue: %v", err)
	}
	if got != "2" {
		t.Errorf("seed = %q, want %q", got, "2")
	}
}

func TestGetMetadataValueMissingKey(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	if err := SaveMetadata(ctx, d, map[string]string{"seed": "1"}); err != nil {
		t.Fatalf("SaveMetadata: %v", err)
	}

	if _, err := GetMetadataValue(ctx, d, "absent"); err == nil {
		t.Error("GetMetadataValue(absent) returned nil error")
	}
}
