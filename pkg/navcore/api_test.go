package navcore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(Options{StoreKind: "memory"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDecideBeforeInit(t *testing.T) {
	c := newTestClient(t)
	if _, err := c.Decide(SensorReading{Front: 200, Left: 150, Right: 150}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("got err %v, want ErrNotInitialized", err)
	}
}

func TestBootstrapInitDecide(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	count, err := c.Bootstrap(ctx)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if count == 0 {
		t.Fatal("bootstrap created no concepts")
	}
	if err := c.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	d, err := c.Decide(SensorReading{Front: 200, Left: 150, Right: 150})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if d.Action == "" || d.Cycle != 1 {
		t.Fatalf("decision = %+v", d)
	}

	if err := c.Feedback(ctx, true, ""); err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if err := c.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !stats.ModelLoaded || stats.ConceptCount != count {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.SessionID == "" || stats.SessionID != c.SessionID() {
		t.Fatalf("session id = %q", stats.SessionID)
	}
}

func TestInitWithoutModelIsDegraded(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	if err := c.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.ModelLoaded {
		t.Fatal("model reported loaded with empty store")
	}
	// Degraded clients still decide.
	d, err := c.Decide(SensorReading{Front: 50, Left: 150, Right: 150})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if d.Action == "" {
		t.Fatalf("decision = %+v", d)
	}
}

func TestConceptsAndWeights(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	if _, err := c.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := c.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	infos, err := c.Concepts(ctx)
	if err != nil {
		t.Fatalf("concepts: %v", err)
	}
	if len(infos) == 0 || infos[0].Name == "" || infos[0].Category == "" {
		t.Fatalf("concept infos = %+v", infos)
	}

	if _, err := c.Decide(SensorReading{Front: 200, Left: 150, Right: 150}); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if err := c.Feedback(ctx, true, ""); err != nil {
		t.Fatalf("feedback: %v", err)
	}
	weights, err := c.Weights()
	if err != nil {
		t.Fatalf("weights: %v", err)
	}
	if len(weights) == 0 {
		t.Fatal("no weights after feedback")
	}
}

func TestResetLearning(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	if _, err := c.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := c.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := c.Decide(SensorReading{Front: 200, Left: 150, Right: 150}); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if err := c.Feedback(ctx, false, ""); err != nil {
		t.Fatalf("feedback: %v", err)
	}

	if err := c.ResetLearning(ctx); err != nil {
		t.Fatalf("reset learning: %v", err)
	}
	weights, err := c.Weights()
	if err != nil {
		t.Fatalf("weights: %v", err)
	}
	if len(weights) != 0 {
		t.Fatalf("weights survived reset: %+v", weights)
	}
}

func TestBoltBackedClientPersistsAcrossSessions(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nav.db")

	c, err := New(Options{StoreKind: "bolt", DBPath: dbPath})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := c.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := c.Decide(SensorReading{Front: 200, Left: 150, Right: 150}); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if err := c.Feedback(ctx, false, ""); err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := New(Options{StoreKind: "bolt", DBPath: dbPath})
	if err != nil {
		t.Fatalf("reopen client: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if err := reopened.Init(ctx); err != nil {
		t.Fatalf("init reopened: %v", err)
	}
	stats, err := reopened.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !stats.ModelLoaded {
		t.Fatal("concept model did not survive reopen")
	}
	weights, err := reopened.Weights()
	if err != nil {
		t.Fatalf("weights: %v", err)
	}
	if len(weights) == 0 {
		t.Fatal("learning state did not survive reopen")
	}
}
