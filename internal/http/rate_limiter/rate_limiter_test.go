package rate_limiter

import (
	"testing"
	"time"
)

func TestGetVisitor_BurstThenDeny(t *testing.T) {
	l := NewLimiter(1, 3)

	v := l.GetVisitor("10.0.0.1")
	for i := 0; i < 3; i++ {
		if !v.Allow() {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	if v.Allow() {
		t.Error("expected 4th immediate request to be denied")
	}

	if !l.GetVisitor("10.0.0.2").Allow() {
		t.Error("other clients must have their own bucket")
	}
}

func TestGetVisitor_SameLimiterForSameIP(t *testing.T) {
	l := NewLimiter(1, 3)
	if l.GetVisitor("10.0.0.1") != l.GetVisitor("10.0.0.1") {
		t.Error("expected the same limiter for the same client")
	}
}

func TestCleanup(t *testing.T) {
	l := NewLimiter(1, 3)
	l.GetVisitor("10.0.0.1")
	l.visitors["10.0.0.1"].lastSeen = time.Now().Add(-10 * time.Minute)
	l.GetVisitor("10.0.0.2")

	l.cleanup(5 * time.Minute)

	if _, ok := l.visitors["10.0.0.1"]; ok {
		t.Error("idle visitor should be removed")
	}
	if _, ok := l.visitors["10.0.0.2"]; !ok {
		t.Error("active visitor should be kept")
	}
}

func TestCleanupAllVisitors(t *testing.T) {
	l := NewLimiter(0.001, 1)

	if !l.GetVisitor("10.0.0.1").Allow() {
		t.Fatal("first request should be allowed")
	}
	if l.GetVisitor("10.0.0.1").Allow() {
		t.Fatal("second request should be denied")
	}

	l.CleanupAllVisitors()

	if !l.GetVisitor("10.0.0.1").Allow() {
		t.Error("expected a fresh bucket after cleanup")
	}
}
