package diagram

import (
	"reflect"
	"testing"
)

func TestRoundPathTooShort(t *testing.T) {
	if got := RoundPath(nil, 6); got != nil {
		t.Errorf("Nil points should yield nil, got %v", got)
	}
	if got := RoundPath([]Point{{1, 2}}, 6); got != nil {
		t.Errorf("Single point should yield nil, got %v", got)
	}
}

func TestRoundPathStraightLine(t *testing.T) {
	got := RoundPath([]Point{{0, 0}, {10, 0}}, 6)
	want := []PathCmd{
		{Op: OpMove, X: 0, Y: 0},
		{Op: OpLine, X: 10, Y: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RoundPath = %v, want %v", got, want)
	}
}

func TestRoundPathCorner(t *testing.T) {
	got := RoundPath([]Point{{0, 0}, {0, 50}, {40, 50}}, 6)
	want := []PathCmd{
		{Op: OpMove, X: 0, Y: 0},
		{Op: OpLine, X: 0, Y: 44},
		{Op: OpQuad, X: 6, Y: 50, CX: 0, CY: 50},
		{Op: OpLine, X: 40, Y: 50},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RoundPath = %v, want %v", got, want)
	}
}

func TestRoundPathRadiusClamped(t *testing.T) {
	// Segments of length 6 and 8 cap the radius at 3.
	got := RoundPath([]Point{{0, 0}, {0, 6}, {8, 6}}, 6)
	want := []PathCmd{
		{Op: OpMove, X: 0, Y: 0},
		{Op: OpLine, X: 0, Y: 3},
		{Op: OpQuad, X: 3, Y: 6, CX: 0, CY: 6},
		{Op: OpLine, X: 8, Y: 6},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RoundPath = %v, want %v", got, want)
	}
}

func TestRoundPathCollinearPassThrough(t *testing.T) {
	got := RoundPath([]Point{{0, 0}, {0, 10}, {0, 20}}, 6)
	want := []PathCmd{
		{Op: OpMove, X: 0, Y: 0},
		{Op: OpLine, X: 0, Y: 10},
		{Op: OpLine, X: 0, Y: 20},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collinear midpoint should stay a line command, got %v", got)
	}
}
