package pallets

import (
	"errors"
	"math"
	"testing"

	"logit/internal/types"
)

func TestPositions(t *testing.T) {
	tests := []struct {
		count     int
		stackable bool
		want      int
	}{
		{1, false, 1},
		{7, false, 7},
		{1, true, 1},
		{2, true, 1},
		{3, true, 2},
		{26, true, 13},
		{0, false, 0},
	}
	for _, tt := range tests {
		if got := Positions(tt.count, tt.stackable); got != tt.want {
			t.Fatalf("Positions(%d, %v): expected %d, got %d", tt.count, tt.stackable, tt.want, got)
		}
	}
}

func TestDensityKgM3(t *testing.T) {
	if _, ok := DensityKgM3(100, 0); ok {
		t.Fatal("expected no density for zero volume")
	}
	d, ok := DensityKgM3(500, 2)
	if !ok || d != 250 {
		t.Fatalf("expected 250, got %v (ok=%v)", d, ok)
	}
}

func TestSummarize(t *testing.T) {
	// Four euro pallets, 120x80x144cm, 3.2t.
	info := Info{Count: 4, Dimensions: Dimensions{LengthCm: 120, WidthCm: 80, HeightCm: 144}, Stackable: true}
	got, err := Summarize(3200, info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.VolumeM3 != 5.53 {
		t.Fatalf("expected volume 5.53, got %v", got.VolumeM3)
	}
	if got.DensityKgM3 == nil || *got.DensityKgM3 != 578.7 {
		t.Fatalf("expected density 578.7, got %v", got.DensityKgM3)
	}
	if got.PalletPositions != 2 {
		t.Fatalf("expected 2 positions, got %d", got.PalletPositions)
	}
}

func TestSummarizeValidation(t *testing.T) {
	valid := Dimensions{LengthCm: 120, WidthCm: 80, HeightCm: 100}
	tests := []struct {
		name   string
		weight float64
		info   Info
		field  string
	}{
		{"zero count", 100, Info{Count: 0, Dimensions: valid}, "pallets.count"},
		{"zero length", 100, Info{Count: 1, Dimensions: Dimensions{WidthCm: 80, HeightCm: 100}}, "pallets.dimensions_cm.length_cm"},
		{"negative width", 100, Info{Count: 1, Dimensions: Dimensions{LengthCm: 120, WidthCm: -1, HeightCm: 100}}, "pallets.dimensions_cm.width_cm"},
		{"infinite height", 100, Info{Count: 1, Dimensions: Dimensions{LengthCm: 120, WidthCm: 80, HeightCm: math.Inf(1)}}, "pallets.dimensions_cm.height_cm"},
		{"negative weight", -1, Info{Count: 1, Dimensions: valid}, "weight_kg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Summarize(tt.weight, tt.info)
			var ve *types.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Fatalf("expected field %s, got %s", tt.field, ve.Field)
			}
		})
	}
}
