package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"timeless/database"
	"timeless/utils"
)

// ErrInvalidSuggestion indicates the model did not return a usable
// read-only query.
var ErrInvalidSuggestion = errors.New("suggested query is not a valid read-only query")

// Generator completes a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Suggester turns a natural language request into SQL.
type Suggester interface {
	Suggest(ctx context.Context, request string, schema []database.TableSchema) (string, error)
}

var suggestPrompt = prompts.NewPromptTemplate(
	`Instruction: Generate ONLY a valid PostgreSQL SELECT query based on the following context.
NO ADDITIONAL TEXT. NO EXPLANATION. PURE SQL QUERY ONLY.

Database Schema:
{{.schema}}
Query Requirements:
- use only the tables and columns of the database schema.
- return the columns x and y, and optionally a leading column named metric that labels each row.
- never modify data.

Request: {{.request}}
QUERY:`,
	[]string{"schema", "request"},
)

// QuerySuggester asks a Generator for SQL and keeps only a single
// read-only statement from the answer.
type QuerySuggester struct {
	gen Generator
}

func NewQuerySuggester(gen Generator) *QuerySuggester {
	return &QuerySuggester{gen: gen}
}

// SuggestPrompt renders the prompt sent to the model.
func SuggestPrompt(request string, schema []database.TableSchema) (string, error) {
	return suggestPrompt.Format(map[string]any{
		"schema":  database.Describe(schema),
		"request": request,
	})
}

func (s *QuerySuggester) Suggest(ctx context.Context, request string, schema []database.TableSchema) (string, error) {
	if strings.TrimSpace(request) == "" {
		return "", errors.New("prompt is required")
	}
	prompt, err := SuggestPrompt(request, schema)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("query generation error: %w", err)
	}

	query := ExtractQuery(text)
	if query == "" {
		return "", fmt.Errorf("%w: could not extract a query from the response", ErrInvalidSuggestion)
	}
	if !utils.ValidateSQL(query) {
		return "", fmt.Errorf("%w: %s", ErrInvalidSuggestion, query)
	}
	return query, nil
}

var (
	statementPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?s)\b(SELECT|WITH)\s.*?;`),
		regexp.MustCompile(`\b(SELECT|WITH)\s[^;]*`),
		regexp.MustCompile(`(?im)^\s*(select|with)\s[^;]*`),
	}
	whitespace = regexp.MustCompile(`\s+`)
)

// ExtractQuery pulls the first SELECT or WITH statement out of model
// output, dropping markdown fences, trailing semicolons and quotes.
func ExtractQuery(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```sql")
	text = strings.TrimPrefix(text, "```")

	var query string
	for _, re := range statementPatterns {
		if m := re.FindString(text); m != "" {
			query = m
			break
		}
	}
	for _, stop := range []string{"```", "\n\n"} {
		if i := strings.Index(query, stop); i >= 0 {
			query = query[:i]
		}
	}
	query = strings.TrimRight(strings.TrimSpace(query), "; \t\n")
	query = trimUnbalanced(query)
	return strings.TrimSpace(whitespace.ReplaceAllString(query, " "))
}

// trimUnbalanced drops a trailing quote left over from a quoted answer.
func trimUnbalanced(query string) string {
	for _, q := range []string{"`", `"`, "'"} {
		if strings.HasSuffix(query, q) && strings.Count(query, q)%2 == 1 {
			query = strings.TrimRight(strings.TrimSuffix(query, q), "; \t\n")
		}
	}
	return query
}
