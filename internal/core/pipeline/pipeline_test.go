package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_number_words/internal/adapters/logger"
	"github.com/baditaflorin/go_number_words/internal/adapters/normalizer"
	"github.com/baditaflorin/go_number_words/internal/core/domain"
	"github.com/baditaflorin/go_number_words/internal/core/reconcile"
	"github.com/baditaflorin/go_number_words/internal/ports"
)

// numerals answers with every token that contains a digit.
var numerals = ports.OracleFunc(func(_ context.Context, text string) ([]string, error) {
	var out []string
	for _, tok := range strings.Fields(text) {
		if strings.IndexFunc(tok, unicode.IsDigit) >= 0 {
			out = append(out, tok)
		}
	}
	return out, nil
})

func newPipeline(t *testing.T, config Config, oracle ports.Oracle) *Pipeline {
	t.Helper()
	p, err := New(config, logger.NewNop(), normalizer.NewOptimizedNormalizer(), oracle, nil)
	require.NoError(t, err)
	return p
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, Config{Substitution: reconcile.Spans}.Validate())
	assert.Error(t, Config{Substitution: "regex"}.Validate())

	_, err := New(Config{Substitution: "regex"}, logger.NewNop(), normalizer.NewDefaultNormalizer(), nil, nil)
	assert.Error(t, err)
	_, err = New(DefaultConfig(), nil, normalizer.NewDefaultNormalizer(), nil, nil)
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	p := newPipeline(t, DefaultConfig(), nil)

	got, err := p.Parse("I owe you twenty-five dollars and one thousand and fifty cents.")
	require.NoError(t, err)
	require.Len(t, got.Numbers, 2)
	assert.Equal(t, "25", got.Numbers[0].Canonical)
	assert.Equal(t, "twenty five", got.Numbers[0].Original)
	assert.Equal(t, "1,000.50", got.Numbers[1].Canonical)
	assert.Equal(t, "one thousand and fifty cents", got.Numbers[1].Original)
	assert.Equal(t, "1000.5", got.Numbers[1].Amount.String())
}

func TestParseEmpty(t *testing.T) {
	p := newPipeline(t, DefaultConfig(), nil)
	_, err := p.Parse("  \t ")
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestParseSkipsOverflow(t *testing.T) {
	p := newPipeline(t, DefaultConfig(), nil)
	got, err := p.Parse("nine hundred ninety nine hundred quadrillion dollars or five")
	require.NoError(t, err)
	require.Len(t, got.Numbers, 1)
	assert.Equal(t, "5", got.Numbers[0].Canonical)
	assert.Len(t, got.Phrases, 2)
}

func TestParseDegenerate(t *testing.T) {
	text := "keep the cents please"

	got, err := newPipeline(t, DefaultConfig(), nil).Parse(text)
	require.NoError(t, err)
	require.Len(t, got.Numbers, 1)
	assert.True(t, got.Numbers[0].Degenerate)
	assert.Equal(t, ".00", got.Numbers[0].Canonical)

	config := DefaultConfig()
	config.SuppressDegenerate = true
	got, err = newPipeline(t, config, nil).Parse(text)
	require.NoError(t, err)
	assert.Empty(t, got.Numbers)
}

func TestExtractRestoresSurfacePhrases(t *testing.T) {
	text := "I owe you twenty-five dollars and one thousand and fifty cents."

	for _, mode := range []reconcile.Mode{reconcile.Literal, reconcile.Spans} {
		t.Run(string(mode), func(t *testing.T) {
			p := newPipeline(t, Config{Substitution: mode}, numerals)

			got, err := p.Extract(context.Background(), text)
			require.NoError(t, err)

			want := []domain.OutputRecord{
				{Label: "#1", Phrase: "twenty-five", Canonical: "25"},
				{Label: "#2", Phrase: "one thousand and fifty cents", Canonical: "1,000.50"},
			}
			assert.Equal(t, want, got.Records)
			for _, r := range got.Records {
				assert.Contains(t, text, r.Phrase)
			}
			assert.Contains(t, got.Substituted, "25 dollars and 1,000.50")
		})
	}
}

func TestExtractWithoutMoney(t *testing.T) {
	called := false
	oracle := ports.OracleFunc(func(context.Context, string) ([]string, error) {
		called = true
		return nil, nil
	})

	p := newPipeline(t, DefaultConfig(), oracle)

	got, err := p.Extract(context.Background(), "the quick brown fox")
	require.NoError(t, err)
	assert.Empty(t, got.Records)
	assert.False(t, called)

	got, err = p.Extract(context.Background(), "there are three apples")
	require.NoError(t, err)
	assert.Empty(t, got.Records)
	assert.True(t, called)
}

func TestExtractOracleFailure(t *testing.T) {
	boom := errors.New("connection refused")
	oracle := ports.OracleFunc(func(context.Context, string) ([]string, error) {
		return nil, boom
	})
	p := newPipeline(t, DefaultConfig(), oracle)

	_, err := p.Extract(context.Background(), "five dollars")
	assert.ErrorIs(t, err, domain.ErrOracleUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "oracle unavailable: ports.OracleFunc: connection refused")

	var oe *domain.OracleError
	require.ErrorAs(t, err, &oe)
}

func TestExtractOracleNamedInError(t *testing.T) {
	p := newPipeline(t, DefaultConfig(), namedOracle{})

	_, err := p.Extract(context.Background(), "five dollars")
	assert.EqualError(t, err, "oracle unavailable: ner-service: timeout")
}

type namedOracle struct{}

func (namedOracle) Name() string { return "ner-service" }

func (namedOracle) Recognize(context.Context, string) ([]string, error) {
	return nil, errors.New("timeout")
}

func TestExtractCancelledDuringOracleCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	oracle := ports.OracleFunc(func(ctx context.Context, _ string) ([]string, error) {
		cancel()
		return nil, ctx.Err()
	})
	p := newPipeline(t, DefaultConfig(), oracle)

	_, err := p.Extract(ctx, "five dollars")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrOracleUnavailable)
}

func TestExtractCancelled(t *testing.T) {
	p := newPipeline(t, DefaultConfig(), numerals)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Extract(ctx, "five dollars")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrOracleUnavailable)
}

func TestExtractWithoutOracle(t *testing.T) {
	p := newPipeline(t, DefaultConfig(), nil)
	_, err := p.Extract(context.Background(), "five dollars")
	assert.ErrorIs(t, err, domain.ErrOracleUnavailable)
}

type countingRecorder struct {
	ports.NopRecorder
	lines, phrases, records int
}

func (r *countingRecorder) LineProcessed()       { r.lines++ }
func (r *countingRecorder) PhrasesFound(n int)   { r.phrases += n }
func (r *countingRecorder) RecordsEmitted(n int) { r.records += n }

func TestExtractRecordsMetrics(t *testing.T) {
	rec := &countingRecorder{}
	p, err := New(DefaultConfig(), logger.NewNop(), normalizer.NewDefaultNormalizer(), numerals, rec)
	require.NoError(t, err)

	_, err = p.Extract(context.Background(), "pay five dollars and six cents")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.lines)
	assert.Equal(t, 2, rec.phrases)
	assert.Equal(t, 2, rec.records)
}
