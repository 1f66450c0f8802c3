package indexer

import (
	"context"
	"math"
	"testing"

	"edusearch/internal/store"
	"edusearch/internal/textpipeline"
)

func TestIndexTitleBoostScenario(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()
	ix := New(s, textpipeline.New(nil), nil)

	if err := ix.Index(ctx, "1", "http://x/", "Hello World", "hello hello world"); err != nil {
		t.Fatalf("Index: %v", err)
	}

	doc, err := s.FindDoc(ctx, "1")
	if err != nil || doc == nil {
		t.Fatalf("FindDoc(1) = (%v, %v)", doc, err)
	}
	if doc.MaxFrequency != 2 {
		t.Fatalf("MaxFrequency = %v; want 2 (captured before title boost)", doc.MaxFrequency)
	}

	hello, err := s.FindTerm(ctx, "hello")
	if err != nil || hello == nil {
		t.Fatalf("FindTerm(hello) = (%v, %v)", hello, err)
	}
	if hello.Index["1"] != 4 {
		t.Fatalf("hello freq = %v; want 2 (body) + 2 (title boost) = 4", hello.Index["1"])
	}

	world, err := s.FindTerm(ctx, "world")
	if err != nil || world == nil {
		t.Fatalf("FindTerm(world) = (%v, %v)", world, err)
	}
	if world.Index["1"] != 3 {
		t.Fatalf("world freq = %v; want 1 (body) + 2 (title boost) = 3", world.Index["1"])
	}
}

func TestIndexEmptyBodySentinel(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()
	ix := New(s, textpipeline.New(nil), nil)

	if err := ix.Index(ctx, "1", "http://x/", "", ""); err != nil {
		t.Fatalf("Index: %v", err)
	}
	doc, err := s.FindDoc(ctx, "1")
	if err != nil || doc == nil {
		t.Fatalf("FindDoc(1) = (%v, %v)", doc, err)
	}
	if !math.IsInf(doc.MaxFrequency, -1) {
		t.Fatalf("MaxFrequency = %v; want -Inf sentinel preserved from the original", doc.MaxFrequency)
	}
}

func TestIndexDropsLongTokensFromFrequencyMapOnly(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()
	ix := New(s, textpipeline.New(nil), nil)

	longWord := ""
	for i := 0; i < 40; i++ {
		longWord += "a"
	}
	if err := ix.Index(ctx, "1", "http://x/", "", "short "+longWord); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if rec, err := s.FindTerm(ctx, longWord); err != nil || rec != nil {
		t.Fatalf("FindTerm(longWord) = (%v, %v); want nil (dropped, >30 chars)", rec, err)
	}
	if rec, err := s.FindTerm(ctx, "short"); err != nil || rec == nil {
		t.Fatalf("FindTerm(short) = (%v, %v); want a record", rec, err)
	}
}

func TestIndexMergesAcrossDocuments(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()
	ix := New(s, textpipeline.New(nil), nil)

	if err := ix.Index(ctx, "1", "", "", "fox fox"); err != nil {
		t.Fatalf("Index doc1: %v", err)
	}
	if err := ix.Index(ctx, "2", "", "", "fox"); err != nil {
		t.Fatalf("Index doc2: %v", err)
	}
	rec, err := s.FindTerm(ctx, "fox")
	if err != nil || rec == nil {
		t.Fatalf("FindTerm(fox) = (%v, %v)", rec, err)
	}
	if rec.Index["1"] != 2 || rec.Index["2"] != 1 {
		t.Fatalf("FindTerm(fox).Index = %#v; want {1:2, 2:1}", rec.Index)
	}
}
