package cleaner

import (
	"context"
	"strings"
	"testing"

	"virast/internal/tokenizer"
)

// loadedSegmenter returns a ready UAX #29 tokenizer.
func loadedSegmenter(t *testing.T) tokenizer.Tokenizer {
	t.Helper()

	seg := tokenizer.NewSegmenter()
	if err := seg.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	return seg
}

func TestNormalize(t *testing.T) {
	c := New(loadedSegmenter(t))

	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{
			name:   "hyphen and underscore stripped, question mark filtered",
			tokens: []string{"سلام_دنیا", "-", "خوبی؟"},
			want:   "سلامدنیا خوبی",
		},
		{
			name:   "whitelisted punctuation retained",
			tokens: []string{"یک.", "دو،", "سه:", "چهار"},
			want:   "یک. دو، سه: چهار",
		},
		{
			name:   "tatweel removed, letters merge",
			tokens: []string{"آمـــوزش"},
			want:   "آموزش",
		},
		{
			name:   "empty sequence",
			tokens: nil,
			want:   "",
		},
		{
			name:   "tokens of only stripped characters vanish",
			tokens: []string{"کتاب", "---", "___", "ـ"},
			want:   "کتاب",
		},
		{
			name:   "digits survive",
			tokens: []string{"فصل", "۱۲", "صفحه", "45"},
			want:   "فصل ۱۲ صفحه 45",
		},
		{
			name:   "internal newlines in a token collapse",
			tokens: []string{"الف\nب"},
			want:   "الف ب",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Normalize(tt.tokens)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.tokens, got, tt.want)
			}
		})
	}
}

func TestClean(t *testing.T) {
	c := New(loadedSegmenter(t))
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "underscore and hyphen merge words",
			input: "سلام_دنیا - خوبی؟",
			want:  "سلامدنیا خوبی",
		},
		{
			name:  "multiple spaces collapse",
			input: "یک.    دو،   سه: چهار",
			want:  "یک . دو ، سه : چهار",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "tatweel",
			input: "آمـــوزش",
			want:  "آموزش",
		},
		{
			name:  "multi-line input becomes single line",
			input: "خط اول\nخط دوم",
			want:  "خط اول خط دوم",
		},
		{
			name:  "whitespace-only input",
			input: " \n\t  \n",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Clean(ctx, tt.input)
			if err != nil {
				t.Fatalf("Clean(%q) returned error: %v", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	c := New(loadedSegmenter(t))
	ctx := context.Background()

	inputs := []string{
		"سلام_دنیا - خوبی؟",
		"یک.    دو،   سه: چهار",
		"خط اول\nخط دوم\n\nخط چهارم",
		"آمـــوزش زبان فارسی!",
		"",
	}

	for _, input := range inputs {
		once, err := c.Clean(ctx, input)
		if err != nil {
			t.Fatalf("Clean(%q) returned error: %v", input, err)
		}

		twice, err := c.Clean(ctx, once)
		if err != nil {
			t.Fatalf("Clean(%q) returned error: %v", once, err)
		}

		if twice != once {
			t.Errorf("cleaned text is not a fixed point: %q -> %q -> %q", input, once, twice)
		}
	}
}

func TestClean_OutputInvariants(t *testing.T) {
	c := New(loadedSegmenter(t))
	ctx := context.Background()

	inputs := []string{
		"سلام_دنیا - خوبی؟",
		"«نقل‌قول» (پرانتز) [براکت] {آکولاد}",
		"علامت‌ها: ! ؟ ؛ ٪ # $ % ^ & * + = | \\ / < >",
		"ـــــ ---- ____",
		"متن\tبا\tتب\r\nو خط جدید",
		"ترکیبی: کتاب-خانه و کتاب_خانه و کتـــاب",
	}

	banned := []string{"ـ", "-", "_", "؟", "!", "؛", "  "}

	for _, input := range inputs {
		got, err := c.Clean(ctx, input)
		if err != nil {
			t.Fatalf("Clean(%q) returned error: %v", input, err)
		}

		for _, b := range banned {
			if strings.Contains(got, b) {
				t.Errorf("Clean(%q) = %q, contains banned %q", input, got, b)
			}
		}

		if got != strings.TrimSpace(got) {
			t.Errorf("Clean(%q) = %q, has leading or trailing whitespace", input, got)
		}

		if err := c.Verify(got); err != nil {
			t.Errorf("Clean(%q) = %q, violates contract: %v", input, got, err)
		}
	}
}

func TestClean_TokenizerError(t *testing.T) {
	// An unloaded segmenter is the resource-unavailable path.
	c := New(tokenizer.NewSegmenter())

	_, err := c.Clean(context.Background(), "متن")
	if err == nil {
		t.Fatal("Clean expected error from unloaded tokenizer")
	}
}
