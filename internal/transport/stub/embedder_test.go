package stub

import (
	"context"
	"math"
	"testing"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/similarity"
)

func TestEmbed_Deterministic(t *testing.T) {
	e := NewEmbedder(0)
	a, _ := e.Embed(context.Background(), "Senior Go developer")
	b, _ := e.Embed(context.Background(), "Senior Go developer")

	if len(a.Embedding) != domain.StubDimensions {
		t.Fatalf("len = %d, want %d", len(a.Embedding), domain.StubDimensions)
	}
	for i := range a.Embedding {
		if a.Embedding[i] != b.Embedding[i] {
			t.Fatalf("vectors differ at %d", i)
		}
	}
}

func TestEmbed_Normalised(t *testing.T) {
	res, _ := NewEmbedder(64).Embed(context.Background(), "kotlin android mobile developer")
	var sum float64
	for _, v := range res.Embedding {
		sum += float64(v) * float64(v)
	}
	if math.Abs(sum-1) > 1e-5 {
		t.Errorf("squared norm = %v, want 1", sum)
	}
}

func TestEmbed_OverlapScoresHigher(t *testing.T) {
	e := NewEmbedder(0)
	ctx := context.Background()
	q, _ := e.Embed(ctx, "Java backend engineer")
	java, _ := e.Embed(ctx, "Senior Java backend engineer with Spring")
	art, _ := e.Embed(ctx, "Watercolor illustrator for children's books")

	simJava, err := similarity.Cosine(q.Embedding, java.Embedding)
	if err != nil {
		t.Fatal(err)
	}
	simArt, _ := similarity.Cosine(q.Embedding, art.Embedding)
	if simJava <= simArt {
		t.Errorf("java=%v should beat art=%v", simJava, simArt)
	}
}

func TestEmbed_NoWords(t *testing.T) {
	res, err := NewEmbedder(8).Embed(context.Background(), "  ... ")
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range res.Embedding {
		if v != 0 {
			t.Fatalf("expected zero vector, got %v", res.Embedding)
		}
	}
}

func TestEmbed_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewEmbedder(8).Embed(ctx, "x"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("C++, C# & Go-lang!")
	want := []string{"c++", "c#", "go", "lang"}
	if len(got) != len(want) {
		t.Fatalf("tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tokenize = %v, want %v", got, want)
		}
	}
}
