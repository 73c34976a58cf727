package numberwords

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/baditaflorin/l"
)

func quietLogger(t *testing.T) l.Logger {
	t.Helper()
	lg, err := l.NewStandardFactory().CreateLogger(l.Config{Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}
	t.Cleanup(func() { _ = lg.Close() })
	return lg
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"whole and cents", "two thousand and fifty cents", []string{"2,000.50"}},
		{"cents only", "seventy five cents", []string{".75"}},
		{"hyphenated", "twenty-five apples", []string{"25"}},
		{"two phrases", "one hundred dollars and some more, then six", []string{"100", "6"}},
		{"none", "the quick brown fox", nil},
	}

	nw, err := New(WithLogger(quietLogger(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			numbers, err := nw.Parse(tc.text)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.text, err)
			}
			var got []string
			for _, n := range numbers {
				got = append(got, n.Canonical)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("Parse(%q) = %v, want %v", tc.text, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("Parse(%q)[%d] = %q, want %q", tc.text, i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestExtractDefaultOracle(t *testing.T) {
	nw, err := New(WithLogger(quietLogger(t)), WithOptimizedNormalizer())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	records, err := nw.Extract(context.Background(), "RMB one hundred thousand, and twenty-one apples.")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1: %v", len(records), records)
	}
	want := Record{Label: "#1", Phrase: "one hundred thousand", Canonical: "100,000"}
	if records[0] != want {
		t.Errorf("got %+v, want %+v", records[0], want)
	}
}

func TestExtractEchoRestoresHyphens(t *testing.T) {
	nw, err := New(WithLogger(quietLogger(t)), WithOracle(EchoOracle()), WithSpanSubstitution())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	records, err := nw.Extract(context.Background(), "forty-two pens")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(records) != 1 || records[0].Phrase != "forty-two" || records[0].Canonical != "42" {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestExtractOracleFailure(t *testing.T) {
	down := OracleFunc(func(context.Context, string) ([]string, error) {
		return nil, errors.New("no route to host")
	})
	nw, err := New(WithLogger(quietLogger(t)), WithOracle(down))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = nw.Extract(context.Background(), "five dollars")
	if !errors.Is(err, ErrOracleUnavailable) {
		t.Errorf("expected ErrOracleUnavailable, got %v", err)
	}
}

func TestSuppressDegenerate(t *testing.T) {
	nw, err := New(WithLogger(quietLogger(t)), WithSuppressDegenerate())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	numbers, err := nw.Parse("keep the cents")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(numbers) != 0 {
		t.Errorf("expected degenerate phrase to be dropped, got %v", numbers)
	}
}

func TestParseEmpty(t *testing.T) {
	nw, err := New(WithLogger(quietLogger(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := nw.Parse(""); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestParseWithDefaults(t *testing.T) {
	numbers, err := ParseWithDefaults("nine hundred and ninety nine")
	if err != nil {
		t.Fatalf("ParseWithDefaults: %v", err)
	}
	if len(numbers) != 1 || numbers[0].Canonical != "999" {
		t.Errorf("unexpected numbers %+v", numbers)
	}
}

func TestCloseOwnedLoggerOnly(t *testing.T) {
	nw, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if nw.ownLogger == nil {
		t.Fatal("expected New to own its default logger")
	}
	if err := nw.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := nw.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	withLogger, err := New(WithLogger(quietLogger(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if withLogger.ownLogger != nil {
		t.Error("a logger passed with WithLogger must not be owned")
	}
	if err := withLogger.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
