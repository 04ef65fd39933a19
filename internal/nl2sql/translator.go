// Package nl2sql turns natural-language questions about the
// conversation corpus into executable DuckDB SQL using an external
// language model. The translator builds the prompt, sanitizes the
// model response, and attributes the result to a catalog view when the
// model returned a view body verbatim. It never executes SQL.
package nl2sql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lenzenc/convo/internal/schema"
	"github.com/lenzenc/convo/internal/views"
)

// Provider is a minimal language-model capability. Adapters translate
// provider-specific request shapes into a flat prompt-in, text-out
// call and classify failures as ProviderError.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
	Model() string
}

// ViewSource supplies the catalog entries advertised in the prompt.
type ViewSource interface {
	List() []views.Definition
}

type Result struct {
	SQL      string `json:"sql"`
	UsedView string `json:"used_view,omitempty"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

type Translator struct {
	provider Provider
	table    schema.Table
	views    ViewSource

	now func() time.Time
}

func NewTranslator(provider Provider, table schema.Table, source ViewSource) *Translator {
	return &Translator{
		provider: provider,
		table:    table,
		views:    source,
		now:      time.Now,
	}
}

// Translate produces SQL for the question. UsedView is set iff the
// sanitized response equals exactly one catalog view body after
// normalization.
func (t *Translator) Translate(ctx context.Context, question string) (Result, error) {
	raw, err := t.provider.Complete(ctx, t.buildPrompt(question))
	if err != nil {
		return Result{}, err
	}

	sqlText, err := Sanitize(raw)
	if err != nil {
		return Result{}, err
	}

	return Result{
		SQL:      sqlText,
		UsedView: t.attributeView(sqlText),
		Provider: t.provider.Name(),
		Model:    t.provider.Model(),
	}, nil
}

func (t *Translator) attributeView(sqlText string) string {
	normalized := Normalize(sqlText)
	matched := ""
	for _, def := range t.views.List() {
		if Normalize(def.SQLQuery) != normalized {
			continue
		}
		if matched != "" {
			// Two views share a body; attribution would be arbitrary.
			return ""
		}
		matched = def.Name
	}
	return matched
}

func (t *Translator) buildPrompt(question string) string {
	today := t.now().UTC()
	yesterday := today.AddDate(0, 0, -1)
	weekAgo := today.AddDate(0, 0, -7)

	var b strings.Builder
	fmt.Fprintf(&b, "You are a %s SQL expert. Convert the user question into a single valid %s SQL query.\n\n", t.table.Dialect, t.table.Dialect)
	fmt.Fprintf(&b, "The engine reads parquet files straight from object storage; the %s table is addressed by the path glob:\n%s\n\n", t.table.Name, t.table.Glob)

	b.WriteString("COLUMNS:\n")
	for _, col := range t.table.Columns {
		fmt.Fprintf(&b, "- %s: %s - %s\n", col.Name, col.Type, col.Description)
	}

	fmt.Fprintf(&b, "\nCURRENT DATE CONTEXT:\n- Today: %s\n- Yesterday: %s\n- Seven days ago: %s\n",
		today.Format("2006-01-02"), yesterday.Format("2006-01-02"), weekAgo.Format("2006-01-02"))

	b.WriteString("\nAVAILABLE VIEWS:\n")
	defs := t.views.List()
	if len(defs) == 0 {
		b.WriteString("(none)\n")
	}
	for _, def := range defs {
		fmt.Fprintf(&b, "VIEW: %s\nDescription: %s\nTags: %s\nSQL: %s\n\n", def.Name, def.Description, strings.Join(def.Tags, ", "), def.SQLQuery)
	}

	fmt.Fprintf(&b, `RULES:
1. If a view's description matches the question, respond with that view's SQL body exactly as listed above, character for character.
2. Otherwise write a query against the path glob '%s'.
3. The dialect supports window functions, UNNEST, EXTRACT, DATE literals like DATE '2025-01-31', and interval arithmetic like CURRENT_DATE - INTERVAL 7 DAY.
4. Never use MySQL syntax such as DATE_SUB, DATE_ADD, or CURDATE.
5. For array columns like user_roles use one-based indexing: user_roles[1]. For struct arrays use sources[1].name or sources[1].score.
6. Resolve relative date terms with the date context above; never emit the words today or yesterday.
7. Use human-readable column aliases, for example COUNT(*) AS "Total Count".
8. Respond with exactly one SQL statement. No prose, no explanations, no markdown fences.

SAMPLE QUERIES:
%s

User question: %s
`, t.table.Glob, strings.Join(t.table.SampleQueries, "\n"), strings.TrimSpace(question))

	return b.String()
}

var sqlVerbs = []string{"SELECT", "WITH", "SHOW", "DESCRIBE", "EXPLAIN"}

// Sanitize strips markdown fences and surrounding whitespace from a
// model response and rejects anything that does not start with a
// recognized SQL verb.
func Sanitize(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimPrefix(strings.TrimLeft(cleaned, " \t"), "sql")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	first := cleaned
	if i := strings.IndexFunc(cleaned, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '(' || r == ';' }); i >= 0 {
		first = cleaned[:i]
	}
	upper := strings.ToUpper(first)
	for _, verb := range sqlVerbs {
		if upper == verb {
			return cleaned, nil
		}
	}
	return "", &TranslationError{Raw: raw}
}

// Normalize renders SQL into the canonical form used for view
// attribution: trailing semicolons stripped, whitespace runs collapsed
// to single spaces, and text outside quoted literals case-folded.
// Quoted literal and identifier contents are preserved verbatim.
func Normalize(sqlText string) string {
	trimmed := strings.TrimSpace(sqlText)
	trimmed = strings.TrimRight(trimmed, ";")
	trimmed = strings.TrimSpace(trimmed)

	var b strings.Builder
	b.Grow(len(trimmed))
	var quote rune
	lastSpace := false
	for _, r := range trimmed {
		if quote != 0 {
			b.WriteRune(r)
			if r == quote {
				quote = 0
			}
			continue
		}
		switch {
		case r == '\'' || r == '"':
			quote = r
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			b.WriteRune(toLower(r))
			lastSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
