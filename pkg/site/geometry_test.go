package site

import "testing"

func TestRectEdges(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 40, H: 60}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"right", r.Right(), 50},
		{"bottom", r.Bottom(), 80},
		{"center x", r.CenterX(), 30},
		{"center y", r.CenterY(), 50},
		{"area", r.Area(), 2400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestRectInset(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		d    float64
		want Rect
	}{
		{"regular", Rect{X: 0, Y: 0, W: 100, H: 50}, 4, Rect{X: 4, Y: 4, W: 92, H: 42}},
		{"collapses to zero", Rect{X: 0, Y: 0, W: 6, H: 6}, 4, Rect{X: 4, Y: 4, W: 0, H: 0}},
		{"zero inset", Rect{X: 1, Y: 2, W: 3, H: 4}, 0, Rect{X: 1, Y: 2, W: 3, H: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Inset(tt.d); got != tt.want {
				t.Errorf("Inset(%v) = %+v, want %+v", tt.d, got, tt.want)
			}
		})
	}
}

func TestRectDiv(t *testing.T) {
	r := Rect{X: 20, Y: 40, W: 100, H: 60}
	if got := r.Div(20); got != (Rect{X: 1, Y: 2, W: 5, H: 3}) {
		t.Errorf("Div(20) = %+v", got)
	}
	if got := r.Div(0); got != r {
		t.Errorf("Div(0) should return the rectangle unchanged, got %+v", got)
	}
}
