package schema

import (
	"strings"
	"testing"
)

func TestGlobEmbedsBucket(t *testing.T) {
	got := Glob("convo")
	want := "s3://convo/tables/conversation_entry/**/*.parquet"
	if got != want {
		t.Fatalf("Glob() = %q, want %q", got, want)
	}
}

func TestConversationEntryShape(t *testing.T) {
	table := ConversationEntry("convo")
	if table.Name != "conversation_entry" {
		t.Fatalf("Name = %q", table.Name)
	}
	if table.Dialect != "duckdb" {
		t.Fatalf("Dialect = %q", table.Dialect)
	}
	if len(table.Columns) != 17 {
		t.Fatalf("Columns = %d, want 17", len(table.Columns))
	}
	seen := map[string]bool{}
	for _, col := range table.Columns {
		if col.Name == "" || col.Type == "" || col.Description == "" {
			t.Fatalf("incomplete column %#v", col)
		}
		if seen[col.Name] {
			t.Fatalf("duplicate column %q", col.Name)
		}
		seen[col.Name] = true
	}
	for _, name := range []string{"entry_id", "session_id", "date", "hour", "sources", "user_roles"} {
		if !seen[name] {
			t.Fatalf("missing column %q", name)
		}
	}
	for _, sample := range table.SampleQueries {
		if !strings.Contains(sample, table.Glob) {
			t.Fatalf("sample query does not target glob: %s", sample)
		}
	}
}
