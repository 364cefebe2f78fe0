package main

import (
	"image"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		spec    string
		want    pointerPath
		wantErr bool
	}{
		{"", nil, false},
		{"10,20", pointerPath{{10, 20}}, false},
		{"0,0:100, 50", pointerPath{{0, 0}, {100, 50}}, false},
		{"-5,3:7,-2:1,1", pointerPath{{-5, 3}, {7, -2}, {1, 1}}, false},
		{"10", nil, true},
		{"a,1", nil, true},
		{"1,b", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := parsePath(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePath(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parsePath(%q) = %v, want %v", tt.spec, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("point %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPathAt(t *testing.T) {
	line := pointerPath{{0, 0}, {100, 50}}
	tests := []struct {
		i, n int
		want image.Point
	}{
		{0, 11, image.Pt(0, 0)},
		{5, 11, image.Pt(50, 25)},
		{10, 11, image.Pt(100, 50)},
	}
	for _, tt := range tests {
		if got, ok := line.At(tt.i, tt.n); !ok || got != tt.want {
			t.Errorf("At(%d, %d) = %v, %v; want %v", tt.i, tt.n, got, ok, tt.want)
		}
	}

	bend := pointerPath{{0, 0}, {10, 0}, {10, 10}}
	if got, _ := bend.At(2, 5); got != image.Pt(10, 0) {
		t.Errorf("At(2, 5) on bend = %v, want corner (10,0)", got)
	}
	if got, _ := bend.At(4, 5); got != image.Pt(10, 10) {
		t.Errorf("At(4, 5) on bend = %v, want end (10,10)", got)
	}

	if _, ok := pointerPath(nil).At(0, 5); ok {
		t.Error("empty path reported a point")
	}
	if got, ok := (pointerPath{{3, 4}}).At(7, 9); !ok || got != image.Pt(3, 4) {
		t.Errorf("single point path At = %v, %v", got, ok)
	}
}
