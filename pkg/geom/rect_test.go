package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestNewRectNormalizesCorners(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		wantMin        r2.Vec
		wantMax        r2.Vec
	}{
		{"ordered", 0, 0, 50, 30, r2.Vec{X: 0, Y: 0}, r2.Vec{X: 50, Y: 30}},
		{"swapped x", 50, 0, 0, 30, r2.Vec{X: 0, Y: 0}, r2.Vec{X: 50, Y: 30}},
		{"swapped y", 0, 30, 50, 0, r2.Vec{X: 0, Y: 0}, r2.Vec{X: 50, Y: 30}},
		{"both swapped", 50, 30, 0, 0, r2.Vec{X: 0, Y: 0}, r2.Vec{X: 50, Y: 30}},
		{"negative coords", -10, -5, -2, -1, r2.Vec{X: -10, Y: -5}, r2.Vec{X: -2, Y: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRect(tt.x1, tt.y1, tt.x2, tt.y2)
			if r.Min != tt.wantMin {
				t.Errorf("Min = %v, want %v", r.Min, tt.wantMin)
			}
			if r.Max != tt.wantMax {
				t.Errorf("Max = %v, want %v", r.Max, tt.wantMax)
			}
		})
	}
}

func TestAccessors(t *testing.T) {
	r := NewRect(2, 3, 12, 8)

	if got := r.Width(); got != 10 {
		t.Errorf("Width() = %g, want 10", got)
	}
	if got := r.Height(); got != 5 {
		t.Errorf("Height() = %g, want 5", got)
	}
	if got := r.Left(); got != 2 {
		t.Errorf("Left() = %g, want 2", got)
	}
	if got := r.Right(); got != 12 {
		t.Errorf("Right() = %g, want 12", got)
	}
	if got := r.Bot(); got != 3 {
		t.Errorf("Bot() = %g, want 3", got)
	}
	if got := r.Top(); got != 8 {
		t.Errorf("Top() = %g, want 8", got)
	}
	if got := r.Area(); got != 50 {
		t.Errorf("Area() = %g, want 50", got)
	}
	if got := r.Center(); got != (r2.Vec{X: 7, Y: 5.5}) {
		t.Errorf("Center() = %v, want (7, 5.5)", got)
	}
	if got := r.Size(); got != (r2.Vec{X: 10, Y: 5}) {
		t.Errorf("Size() = %v, want (10, 5)", got)
	}
}

func TestEncloses(t *testing.T) {
	container := NewRect(0, 0, 50, 30)

	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"itself", container, true},
		{"strictly inside", NewRect(10, 10, 20, 20), true},
		{"shared left edge", NewRect(0, 5, 10, 25), true},
		{"shared all edges", NewRect(0, 0, 50, 30), true},
		{"sticks out right", NewRect(40, 10, 52, 20), false},
		{"sticks out left", NewRect(-1, 10, 20, 20), false},
		{"sticks out top", NewRect(10, 25, 20, 35), false},
		{"sticks out bottom", NewRect(10, -3, 20, 20), false},
		{"fully outside", NewRect(60, 40, 70, 50), false},
		{"larger than container", NewRect(-5, -5, 55, 35), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := container.Encloses(tt.r); got != tt.want {
				t.Errorf("Encloses(%v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestIntersects(t *testing.T) {
	r := NewRect(0, 0, 10, 10)

	tests := []struct {
		name string
		o    Rect
		want bool
	}{
		{"overlapping", NewRect(5, 5, 15, 15), true},
		{"contained", NewRect(2, 2, 8, 8), true},
		{"touching edge", NewRect(10, 0, 20, 10), true},
		{"touching corner", NewRect(10, 10, 20, 20), true},
		{"disjoint", NewRect(11, 11, 20, 20), false},
		{"disjoint on x only", NewRect(20, 0, 30, 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Intersects(tt.o); got != tt.want {
				t.Errorf("Intersects(%v) = %v, want %v", tt.o, got, tt.want)
			}
			// Intersects is symmetric.
			if got := tt.o.Intersects(r); got != tt.want {
				t.Errorf("reversed Intersects(%v) = %v, want %v", r, got, tt.want)
			}
		})
	}
}

func TestPad(t *testing.T) {
	r := NewRect(10, 10, 20, 20)

	grown := r.Pad(3)
	if want := NewRect(7, 7, 23, 23); grown != want {
		t.Errorf("Pad(3) = %v, want %v", grown, want)
	}

	shrunk := r.Pad(-3)
	if want := NewRect(13, 13, 17, 17); shrunk != want {
		t.Errorf("Pad(-3) = %v, want %v", shrunk, want)
	}

	// The receiver is untouched.
	if r != NewRect(10, 10, 20, 20) {
		t.Errorf("receiver mutated to %v", r)
	}
}

func TestPadDegeneratePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Pad(-5) on a 10x10 rect did not panic")
		}
	}()
	NewRect(0, 0, 10, 10).Pad(-5)
}

func TestGrow(t *testing.T) {
	r := NewRect(10, 10, 20, 20)

	tests := []struct {
		name                     string
		left, bottom, right, top float64
		want                     Rect
	}{
		{"all sides out", 1, 2, 3, 4, NewRect(9, 8, 23, 24)},
		{"right edge in", 0, 0, -5, 0, NewRect(10, 10, 15, 20)},
		{"left only", 7, 0, 0, 0, NewRect(3, 10, 20, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Grow(tt.left, tt.bottom, tt.right, tt.top); got != tt.want {
				t.Errorf("Grow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnion(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, -5, 20, 8)
	c := NewRect(-3, 2, 1, 30)

	ab := a.Union(b)
	if want := NewRect(0, -5, 20, 10); ab != want {
		t.Errorf("a.Union(b) = %v, want %v", ab, want)
	}

	// Commutative.
	if ba := b.Union(a); ba != ab {
		t.Errorf("b.Union(a) = %v, want %v", ba, ab)
	}

	// Associative.
	if l, r := a.Union(b).Union(c), a.Union(b.Union(c)); l != r {
		t.Errorf("(a∪b)∪c = %v, a∪(b∪c) = %v", l, r)
	}

	// Result encloses both inputs.
	if !ab.Encloses(a) || !ab.Encloses(b) {
		t.Errorf("union %v does not enclose both %v and %v", ab, a, b)
	}
}

func TestMove(t *testing.T) {
	r := NewRect(1, 2, 3, 4)
	got := r.Move(r2.Vec{X: 10, Y: -2})
	if want := NewRect(11, 0, 13, 2); got != want {
		t.Errorf("Move() = %v, want %v", got, want)
	}
	if r != NewRect(1, 2, 3, 4) {
		t.Errorf("receiver mutated to %v", r)
	}
}

func TestZeroRect(t *testing.T) {
	var z Rect
	if got := z.Area(); got != 0 {
		t.Errorf("zero Rect Area() = %g, want 0", got)
	}
	if math.Signbit(z.Width()) {
		t.Errorf("zero Rect Width() is negative")
	}
}
