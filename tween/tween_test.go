package tween

import (
	"math"
	"testing"
	"time"
)

func TestQuinticOutEndpoints(t *testing.T) {
	if QuinticOut(0) != 0 {
		t.Errorf("QuinticOut(0) = %v, want 0", QuinticOut(0))
	}
	if QuinticOut(1) != 1 {
		t.Errorf("QuinticOut(1) = %v, want 1", QuinticOut(1))
	}
	// 1 - 0.5^5
	if got := QuinticOut(0.5); math.Abs(got-0.96875) > 1e-12 {
		t.Errorf("QuinticOut(0.5) = %v, want 0.96875", got)
	}
}

func TestEasingsMonotonic(t *testing.T) {
	for name, ease := range map[string]Easing{"linear": Linear, "quintic": QuinticOut, "cubic": CubicInOut} {
		prev := ease(0)
		for i := 1; i <= 100; i++ {
			v := ease(float64(i) / 100)
			if v < prev {
				t.Fatalf("%s not monotonic at %d: %v < %v", name, i, v, prev)
			}
			prev = v
		}
	}
}

func TestTweenValue(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tw := New(100, 200, start, time.Second, Linear)

	tests := []struct {
		at   time.Duration
		want float64
		done bool
	}{
		{-time.Second, 100, false},
		{0, 100, false},
		{250 * time.Millisecond, 125, false},
		{time.Second, 200, true},
		{2 * time.Second, 200, true},
	}
	for _, tt := range tests {
		got, done := tw.Value(start.Add(tt.at))
		if math.Abs(got-tt.want) > 1e-9 || done != tt.done {
			t.Errorf("Value(%v) = (%v,%v), want (%v,%v)", tt.at, got, done, tt.want, tt.done)
		}
	}
}

func TestTweenZeroDurationCompletes(t *testing.T) {
	now := time.Now()
	v, done := New(0, 10, now, 0, nil).Value(now)
	if v != 10 || !done {
		t.Errorf("Expected (10,true), got (%v,%v)", v, done)
	}
}

func TestLerpAngleShortestArc(t *testing.T) {
	tests := []struct {
		a, b, t, want float64
	}{
		{170, -170, 0.5, -180},
		{-170, 170, 0.5, -180},
		{10, 50, 0.5, 30},
		{0, 0, 0.3, 0},
	}
	for _, tt := range tests {
		if got := LerpAngle(tt.a, tt.b, tt.t); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("LerpAngle(%v,%v,%v) = %v, want %v", tt.a, tt.b, tt.t, got, tt.want)
		}
	}
}

func TestWrapDegrees(t *testing.T) {
	tests := map[float64]float64{0: 0, 180: -180, 190: -170, -190: 170, 540: -180, 359: -1}
	for in, want := range tests {
		if got := WrapDegrees(in); math.Abs(got-want) > 1e-9 {
			t.Errorf("WrapDegrees(%v) = %v, want %v", in, got, want)
		}
	}
}
