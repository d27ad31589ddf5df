package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"timeless/config"
	"timeless/database"
)

type fakeGenerator struct {
	reply  string
	err    error
	prompt string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.reply, g.err
}

var salesSchema = []database.TableSchema{{
	Name: "sales",
	Columns: []database.ColumnSchema{
		{Name: "region", Type: "text"},
		{Name: "amount", Type: "numeric", Nullable: true},
	},
}}

func TestSuggest(t *testing.T) {
	gen := &fakeGenerator{reply: "```sql\nSELECT region AS metric, sale_date AS x, amount AS y\nFROM sales;\n```"}
	s := NewQuerySuggester(gen)

	q, err := s.Suggest(context.Background(), "sales per region", salesSchema)
	require.NoError(t, err)
	require.Equal(t, "SELECT region AS metric, sale_date AS x, amount AS y FROM sales", q)
	require.Contains(t, gen.prompt, "Request: sales per region")
	require.Contains(t, gen.prompt, "region (text NOT NULL), amount (numeric)")
}

func TestSuggestRejects(t *testing.T) {
	s := NewQuerySuggester(&fakeGenerator{reply: "I cannot help with that."})
	_, err := s.Suggest(context.Background(), "drop everything", nil)
	require.ErrorIs(t, err, ErrInvalidSuggestion)

	s = NewQuerySuggester(&fakeGenerator{reply: "WITH gone AS (DELETE FROM sales RETURNING *) SELECT * FROM gone"})
	_, err = s.Suggest(context.Background(), "clean up", nil)
	require.ErrorIs(t, err, ErrInvalidSuggestion)

	boom := errors.New("rate limited")
	s = NewQuerySuggester(&fakeGenerator{err: boom})
	_, err = s.Suggest(context.Background(), "anything", nil)
	require.ErrorIs(t, err, boom)

	_, err = s.Suggest(context.Background(), "  ", nil)
	require.Error(t, err)
}

func TestExtractQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT 1;", "SELECT 1"},
		{"Here is the query:\n\nSELECT a, b FROM t WHERE c = 'x';\nIt returns rows.", "SELECT a, b FROM t WHERE c = 'x'"},
		{"Sure!\n```sql\nselect x, y\nfrom t\n```\nDone", "select x, y from t"},
		{"SELECT x, y FROM t\n\nThis query lists points.", "SELECT x, y FROM t"},
		{"no sql here", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ExtractQuery(tt.in), tt.in)
	}
}

func TestNewSuggester(t *testing.T) {
	_, err := NewSuggester(config.LLM{})
	require.ErrorIs(t, err, ErrSuggesterDisabled)

	s, err := NewSuggester(config.LLM{Provider: "huggingface", APIKey: "k"})
	require.NoError(t, err)
	require.IsType(t, &HuggingFace{}, s.(*QuerySuggester).gen)

	s, err = NewSuggester(config.LLM{Provider: "openai", APIKey: "k"})
	require.NoError(t, err)
	require.IsType(t, &OpenAI{}, s.(*QuerySuggester).gen)
	require.Equal(t, DefaultOpenAIModel, s.(*QuerySuggester).gen.(*OpenAI).model)

	_, err = NewSuggester(config.LLM{Provider: "bard", APIKey: "k"})
	require.Error(t, err)
}
