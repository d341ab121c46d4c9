package synth

import (
	"reflect"
	"testing"
)

func TestGenerateGuides(t *testing.T) {
	f := NewFakerWithSeed(42)
	guides := GenerateGuides(f, 12)

	if len(guides) != 12 {
		t.Fatalf("expected 12 guides, got %d", len(guides))
	}
	for i, g := range guides {
		if g.GuideID != i+1 {
			t.Errorf("guide %d has id %d", i, g.GuideID)
		}
		if g.GuideName == "" {
			t.Errorf("guide %d has empty name", g.GuideID)
		}
		if g.Email == "" {
			t.Errorf("guide %d has empty email", g.GuideID)
		}
		if g.Phone == "" {
			t.Errorf("guide %d has empty phone", g.GuideID)
		}
		if g.Bio == "" {
			t.Errorf("guide %d has empty bio", g.GuideID)
		}
		if len(g.Bio) > 160 {
			t.Errorf("guide %d bio is %d chars, want <= 160", g.GuideID, len(g.Bio))
		}
	}
}

func TestGenerateGuidesDeterministic(t *testing.T) {
	a := GenerateGuides(NewFakerWithSeed(9), 6)
	b := GenerateGuides(NewFakerWithSeed(9), 6)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different guides")
	}
}
