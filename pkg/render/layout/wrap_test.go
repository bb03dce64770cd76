package layout

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/topicsheet/pkg/errors"
	"github.com/matzehuels/topicsheet/pkg/fonts"
	"github.com/matzehuels/topicsheet/pkg/render/metrics"
)

// Every rune is 5pt wide at size 10.
var (
	mono      = metrics.Monospace{Advance: 0.5}
	valueFace = fonts.Face{Name: fonts.Helvetica, Size: 10, LineHeight: 14}
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{
			name:     "empty",
			text:     "",
			maxWidth: 50,
			want:     nil,
		},
		{
			name:     "whitespace only",
			text:     " \t\n ",
			maxWidth: 50,
			want:     nil,
		},
		{
			name:     "fits on one line",
			text:     "aaa bbb",
			maxWidth: 50,
			want:     []string{"aaa bbb"},
		},
		{
			name:     "exact fit",
			text:     "aaaa bbbbb",
			maxWidth: 50,
			want:     []string{"aaaa bbbbb"},
		},
		{
			name:     "breaks greedily",
			text:     "aaa bbb ccc",
			maxWidth: 50,
			want:     []string{"aaa bbb", "ccc"},
		},
		{
			name:     "collapses whitespace",
			text:     "  aaa \n\n bbb\tccc  ",
			maxWidth: 50,
			want:     []string{"aaa bbb", "ccc"},
		},
		{
			name:     "oversized word on its own line",
			text:     "a verylongwordxx b",
			maxWidth: 25,
			want:     []string{"a", "verylongwordxx", "b"},
		},
		{
			name:     "oversized first word",
			text:     "verylongwordxx b",
			maxWidth: 25,
			want:     []string{"verylongwordxx", "b"},
		},
		{
			name:     "single oversized word",
			text:     "X",
			maxWidth: 1,
			want:     []string{"X"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Wrap(mono, tt.text, tt.maxWidth, valueFace)
			if err != nil {
				t.Fatalf("Wrap() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Wrap() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWrapMeasurementFailure(t *testing.T) {
	_, err := Wrap(metrics.NewCoreMeasurer(), "some text", 100, fonts.Face{Name: "Bogus", Size: 10, LineHeight: 14})
	if !errors.Is(err, errors.ErrCodeMeasurement) {
		t.Errorf("Wrap() error = %v, want %s", err, errors.ErrCodeMeasurement)
	}
}

func TestWrapProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := metrics.NewCoreMeasurer()
	alphabet := []rune("abcdefghij KLMNOP qrstuvwxyz  éü")

	for i := 0; i < 200; i++ {
		n := rng.Intn(300)
		runes := make([]rune, n)
		for j := range runes {
			runes[j] = alphabet[rng.Intn(len(alphabet))]
		}
		text := string(runes)
		maxWidth := 20 + rng.Float64()*300

		lines, err := Wrap(m, text, maxWidth, valueFace)
		if err != nil {
			t.Fatalf("Wrap() error: %v", err)
		}

		// Every line fits, or is a single word.
		for _, line := range lines {
			w, err := m.Width(line, valueFace)
			if err != nil {
				t.Fatalf("Width() error: %v", err)
			}
			if w > maxWidth && strings.Contains(line, " ") {
				t.Errorf("line %q is %.2fpt wide with limit %.2fpt and contains a space", line, w, maxWidth)
			}
		}

		// Joining the lines restores the word sequence.
		if got, want := strings.Join(lines, " "), strings.Join(strings.Fields(text), " "); got != want {
			t.Errorf("joined lines = %q, want %q", got, want)
		}

		// Deterministic.
		again, _ := Wrap(m, text, maxWidth, valueFace)
		if diff := cmp.Diff(lines, again); diff != "" {
			t.Errorf("Wrap() not deterministic (-first +second):\n%s", diff)
		}
	}
}

func TestOversized(t *testing.T) {
	lines := []string{"a", "verylongwordxx", "b"}
	got, err := Oversized(mono, lines, 25, valueFace)
	if err != nil {
		t.Fatalf("Oversized() error: %v", err)
	}
	if diff := cmp.Diff([]string{"verylongwordxx"}, got); diff != "" {
		t.Errorf("Oversized() mismatch (-want +got):\n%s", diff)
	}
}
