package services

import (
	"context"
	"testing"
)

func TestInflightSupersedeCancelsPrevious(t *testing.T) {
	f := newInflight(true)

	ctx1, n1, done1 := f.begin(context.Background(), kindRoute)
	defer done1()
	ctx2, n2, done2 := f.begin(context.Background(), kindRoute)
	defer done2()

	if ctx1.Err() == nil {
		t.Fatal("expected first fetch to be cancelled")
	}
	if ctx2.Err() != nil {
		t.Fatalf("second fetch cancelled: %v", ctx2.Err())
	}
	if f.current(kindRoute, n1) {
		t.Fatal("first fetch still current")
	}
	if !f.current(kindRoute, n2) {
		t.Fatal("second fetch not current")
	}
}

func TestInflightKindsAreIndependent(t *testing.T) {
	f := newInflight(true)

	ctxRoute, nRoute, doneRoute := f.begin(context.Background(), kindRoute)
	defer doneRoute()
	_, _, doneGeo := f.begin(context.Background(), kindGeocode)
	defer doneGeo()

	if ctxRoute.Err() != nil || !f.current(kindRoute, nRoute) {
		t.Fatal("route fetch disturbed by geocode fetch")
	}
}

func TestInflightLegacyKeepsAllCurrent(t *testing.T) {
	f := newInflight(false)

	ctx1, n1, _ := f.begin(context.Background(), kindLocation)
	_, n2, _ := f.begin(context.Background(), kindLocation)

	if ctx1.Err() != nil {
		t.Fatal("legacy mode must not cancel")
	}
	if !f.current(kindLocation, n1) || !f.current(kindLocation, n2) {
		t.Fatal("legacy mode must keep every fetch current")
	}
}

func TestInflightClose(t *testing.T) {
	for _, supersede := range []bool{true, false} {
		f := newInflight(supersede)
		ctx, n, done := f.begin(context.Background(), kindGeocode)
		defer done()

		f.close()

		if f.current(kindGeocode, n) {
			t.Fatalf("supersede=%v: closed fetch still current", supersede)
		}
		if supersede && ctx.Err() == nil {
			t.Fatal("close must cancel running fetches")
		}
	}
}
