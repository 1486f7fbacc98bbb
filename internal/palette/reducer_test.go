package palette

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/jmylchreest/huepick/internal/colour"
)

func swatch(key string, s, l, size float64) colour.ClassifiedColour {
	return colour.ClassifiedColour{
		Cluster: colour.Cluster{Size: size},
		HSL:     colour.HSL{S: s, L: l},
		Key:     key,
	}
}

func keys(colours []colour.ClassifiedColour) []string {
	out := make([]string, len(colours))
	for i, c := range colours {
		out[i] = c.Key
	}
	return out
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name  string
		input []colour.ClassifiedColour
		want  []string
	}{
		{
			name:  "empty",
			input: nil,
			want:  []string{},
		},
		{
			name:  "single colour",
			input: []colour.ClassifiedColour{swatch("only", 0, 0, 0)},
			want:  []string{"only"},
		},
		{
			// sat: a b c, lightness: a c b, size: b c a
			// fused: a=1*1*3=3, b=2*3*1=6, c=3*2*2=12
			name: "fused order",
			input: []colour.ClassifiedColour{
				swatch("c", 50, 100, 3),
				swatch("b", 100, 200, 5),
				swatch("a", 200, 127.5, 1),
			},
			want: []string{"a", "b", "c"},
		},
		{
			name: "identical colours keep arrival order",
			input: []colour.ClassifiedColour{
				swatch("first", 120, 90, 2),
				swatch("second", 120, 90, 2),
				swatch("third", 120, 90, 2),
			},
			want: []string{"first", "second", "third"},
		},
		{
			name: "lightness distance is symmetric about the midpoint",
			input: []colour.ClassifiedColour{
				swatch("dark", 100, 27.5, 1),
				swatch("light", 100, 227.5, 1),
			},
			want: []string{"dark", "light"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keys(Reduce(tt.input))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Reduce() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFusedScores(t *testing.T) {
	input := []colour.ClassifiedColour{
		swatch("a", 200, 127.5, 1),
		swatch("b", 100, 200, 5),
		swatch("c", 50, 100, 3),
	}
	want := []int{3, 6, 12}
	if got := FusedScores(input); !slices.Equal(got, want) {
		t.Errorf("FusedScores() = %v, want %v", got, want)
	}
}

func TestReduceSizeComparesValues(t *testing.T) {
	// Saturation and lightness tie, so their positions follow arrival
	// order (1,2,3). Size is ranked by value, largest first (3,2,1).
	// Ranking size by arrival instead would give [1 8 27].
	input := []colour.ClassifiedColour{
		swatch("small", 100, 100, 1),
		swatch("medium", 100, 100, 10),
		swatch("large", 100, 100, 100),
	}
	want := []int{3, 8, 9}
	if got := FusedScores(input); !slices.Equal(got, want) {
		t.Fatalf("FusedScores() = %v, want %v", got, want)
	}
}

func randomPalette(rng *rand.Rand, n int) []colour.ClassifiedColour {
	out := make([]colour.ClassifiedColour, n)
	for i := range out {
		// coarse values so ties are common
		out[i] = swatch(
			string(rune('a'+i%26))+string(rune('0'+i/26)),
			float64(rng.IntN(4)*64),
			float64(rng.IntN(5)*50),
			float64(rng.IntN(3)),
		)
	}
	return out
}

func TestReduceIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		input := randomPalette(rng, 1+rng.IntN(12))
		first := keys(Reduce(input))
		second := keys(Reduce(input))
		if !slices.Equal(first, second) {
			t.Fatalf("Reduce() not deterministic: %v then %v", first, second)
		}
	}
}

func TestReduceDoesNotModifyInput(t *testing.T) {
	input := []colour.ClassifiedColour{
		swatch("c", 50, 100, 3),
		swatch("b", 100, 200, 5),
		swatch("a", 200, 127.5, 1),
	}
	before := keys(input)
	_ = Reduce(input)
	if after := keys(input); !slices.Equal(before, after) {
		t.Errorf("input reordered: %v -> %v", before, after)
	}
}

func TestReduceMonotonicity(t *testing.T) {
	dominates := func(a, b colour.ClassifiedColour) bool {
		return a.HSL.S > b.HSL.S &&
			math.Abs(a.HSL.L-colour.Midpoint) < math.Abs(b.HSL.L-colour.Midpoint) &&
			a.Size > b.Size
	}

	rng := rand.New(rand.NewPCG(3, 4))
	for range 100 {
		input := randomPalette(rng, 2+rng.IntN(10))
		scores := FusedScores(input)
		ranked := keys(Reduce(input))

		for i := range input {
			for j := range input {
				if !dominates(input[i], input[j]) {
					continue
				}
				if scores[i] > scores[j] {
					t.Fatalf("%s dominates %s but scores %d > %d", input[i].Key, input[j].Key, scores[i], scores[j])
				}
				if slices.Index(ranked, input[i].Key) > slices.Index(ranked, input[j].Key) {
					t.Fatalf("%s dominates %s but ranks later in %v", input[i].Key, input[j].Key, ranked)
				}
			}
		}
	}
}

func TestTop(t *testing.T) {
	ranked := []colour.ClassifiedColour{swatch("a", 0, 0, 0), swatch("b", 0, 0, 0), swatch("c", 0, 0, 0)}
	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{"a", "b", "c"}},
		{-1, []string{"a", "b", "c"}},
		{2, []string{"a", "b"}},
		{3, []string{"a", "b", "c"}},
		{10, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		if got := keys(Top(ranked, tt.n)); !slices.Equal(got, tt.want) {
			t.Errorf("Top(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}

	top := Top(ranked, 1)
	top[0].Key = "changed"
	if ranked[0].Key != "a" {
		t.Error("Top() shares memory with its input")
	}
}
