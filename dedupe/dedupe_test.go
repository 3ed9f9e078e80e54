package dedupe

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestMemoryGuardFlagsSecondSighting(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()

	seen, err := g.SeenBefore(ctx, "c1")
	if err != nil {
		t.Fatalf("SeenBefore: %v", err)
	}
	if seen {
		t.Fatal("first sighting reported as seen before")
	}

	seen, err = g.SeenBefore(ctx, "c1")
	if err != nil {
		t.Fatalf("SeenBefore: %v", err)
	}
	if !seen {
		t.Fatal("second sighting not reported as seen before")
	}
}

func TestMemoryGuardDistinguishesClaimIDs(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()

	if seen, _ := g.SeenBefore(ctx, "c1"); seen {
		t.Fatal("c1 reported as seen before on first sighting")
	}
	if seen, _ := g.SeenBefore(ctx, "c2"); seen {
		t.Fatal("c2 reported as seen before on first sighting")
	}
}

func TestNewFallsBackToMemoryWithoutRedisURL(t *testing.T) {
	g := New("", zerolog.Nop())
	if _, ok := g.(*memoryGuard); !ok {
		t.Fatalf("New(\"\", ...) = %T, want *memoryGuard", g)
	}
}

func TestNewFallsBackToMemoryOnUnparsableURL(t *testing.T) {
	g := New("not-a-valid-url", zerolog.Nop())
	if _, ok := g.(*memoryGuard); !ok {
		t.Fatalf("New(invalid url) = %T, want *memoryGuard", g)
	}
}
