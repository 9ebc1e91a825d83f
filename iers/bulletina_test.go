package iers

import (
	"math"
	"strings"
	"testing"
)

const sampleBulletinA = "" +
	"IERS Bulletin A combined polar motion / UT1-UTC\n" +
	"20 1 3 59002.00 0.900 0.00 0.900 0.00 0.900 0.00 1.000 0.00\n" +
	"20 1 4 59003.00 0.901 0.00 0.901 0.00 0.901 0.00 1.001 0.00\n" +
	"\n"

func TestBulletinALoad(t *testing.T) {
	b := NewBulletinA()
	if err := b.Load(strings.NewReader(sampleBulletinA)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	start, end, ok := b.Range()
	if !ok {
		t.Fatal("Range: no data loaded")
	}
	if start != 59002.0 || end != 59003.0 {
		t.Errorf("Range = [%f, %f], want [59002, 59003]", start, end)
	}
}

func TestBulletinAInterpolate(t *testing.T) {
	b := NewBulletinA()
	if err := b.Load(strings.NewReader(sampleBulletinA)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	eop, err := b.EOPAt(mustInstant(t, 59002.5))
	if err != nil {
		t.Fatalf("EOPAt: %v", err)
	}
	if math.Abs(eop.PolarMotionXArcsec-0.9005) > 1e-9 {
		t.Errorf("interpolated x = %f, want 0.9005", eop.PolarMotionXArcsec)
	}
}

func TestBulletinAEmptyProvider(t *testing.T) {
	b := NewBulletinA()
	if _, err := b.EOPAt(mustInstant(t, 59002.0)); err == nil {
		t.Error("expected error querying an unloaded BulletinA")
	}
}
