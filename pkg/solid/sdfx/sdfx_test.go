package sdfx

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestCubeBoundingBox(t *testing.T) {
	b := New(0)
	min, max := b.Cube(r3.Vec{X: 100, Y: 50, Z: 25}).BoundingBox()

	const tol = 0.01
	expectMin := r3.Vec{X: 0, Y: 0, Z: 0}
	expectMax := r3.Vec{X: 100, Y: 50, Z: 25}

	if math.Abs(min.X-expectMin.X) > tol || math.Abs(min.Y-expectMin.Y) > tol || math.Abs(min.Z-expectMin.Z) > tol {
		t.Errorf("min = %v, expected %v", min, expectMin)
	}
	if math.Abs(max.X-expectMax.X) > tol || math.Abs(max.Y-expectMax.Y) > tol || math.Abs(max.Z-expectMax.Z) > tol {
		t.Errorf("max = %v, expected %v", max, expectMax)
	}
}

func TestCylinderBaseAtZero(t *testing.T) {
	b := New(0)
	min, max := b.Cylinder(50, 10, 32).BoundingBox()

	const tol = 0.01
	if math.Abs(min.Z) > tol {
		t.Errorf("base z = %f, expected 0", min.Z)
	}
	if math.Abs(max.Z-50) > tol {
		t.Errorf("top z = %f, expected 50", max.Z)
	}
	if math.Abs(min.X+10) > tol || math.Abs(max.X-10) > tol {
		t.Errorf("x extent = %f..%f, expected -10..10", min.X, max.X)
	}
}

func TestEvaluateSigns(t *testing.T) {
	b := New(0)
	cube := b.Cube(r3.Vec{X: 10, Y: 10, Z: 10})

	if d := Evaluate(cube, r3.Vec{X: 5, Y: 5, Z: 5}); d >= 0 {
		t.Errorf("center distance = %f, expected negative (inside)", d)
	}
	if d := Evaluate(cube, r3.Vec{X: 15, Y: 5, Z: 5}); d <= 0 {
		t.Errorf("outside distance = %f, expected positive", d)
	}
}

func TestDifferenceOpensHole(t *testing.T) {
	b := New(0)
	block := b.Cube(r3.Vec{X: 20, Y: 20, Z: 10})
	drill := b.Translate(b.Cylinder(20, 3, 20), r3.Vec{X: 10, Y: 10, Z: -5})
	holed := b.Difference(block, drill)

	probe := r3.Vec{X: 10, Y: 10, Z: 5}
	if d := Evaluate(block, probe); d >= 0 {
		t.Fatalf("probe not inside plain block, distance %f", d)
	}
	if d := Evaluate(holed, probe); d <= 0 {
		t.Errorf("probe inside drilled hole, distance %f, expected positive", d)
	}
	// Material away from the hole survives.
	if d := Evaluate(holed, r3.Vec{X: 2, Y: 2, Z: 5}); d >= 0 {
		t.Errorf("corner material removed, distance %f", d)
	}
}

func TestScaleMirrorsAcrossZ(t *testing.T) {
	b := New(0)
	cube := b.Cube(r3.Vec{X: 10, Y: 10, Z: 10})
	mirrored := b.Scale(cube, r3.Vec{X: 1, Y: 1, Z: -1})

	if d := Evaluate(mirrored, r3.Vec{X: 5, Y: 5, Z: -5}); d >= 0 {
		t.Errorf("mirrored interior distance = %f, expected negative", d)
	}
	if d := Evaluate(mirrored, r3.Vec{X: 5, Y: 5, Z: 5}); d <= 0 {
		t.Errorf("original side distance = %f, expected positive after mirror", d)
	}
}

func TestRotateLaysCylinderAlongX(t *testing.T) {
	b := New(0)
	cyl := b.Cylinder(12, 1.25, 20)
	rotated := b.Rotate(cyl, r3.Vec{Y: 90})

	min, max := rotated.BoundingBox()
	xExtent := max.X - min.X
	zExtent := max.Z - min.Z

	const tol = 0.1
	if math.Abs(xExtent-12) > tol {
		t.Errorf("rotated x extent = %f, expected ~12", xExtent)
	}
	if math.Abs(zExtent-2.5) > tol {
		t.Errorf("rotated z extent = %f, expected ~2.5", zExtent)
	}
	// Rotating +90 about y sends +z to +x.
	if math.Abs(max.X-12) > tol {
		t.Errorf("rotated solid ends at x=%f, expected ~12", max.X)
	}
}

func TestSaveWritesSTL(t *testing.T) {
	b := New(24)
	path := filepath.Join(t.TempDir(), "cube.stl")

	if err := b.Save(b.Cube(r3.Vec{X: 4, Y: 4, Z: 4}), path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("output STL is empty")
	}
}
