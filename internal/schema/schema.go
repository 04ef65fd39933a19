// Package schema is the single source of truth for the conversation_entry
// table shape handed to the NL-to-SQL translator.
package schema

import "fmt"

// Dialect is the SQL dialect spoken by the query engine.
const Dialect = "duckdb"

// TableName is the logical name of the conversation corpus table.
const TableName = "conversation_entry"

type Column struct {
	Name        string
	Type        string
	Description string
}

type Table struct {
	Name          string
	Glob          string
	Dialect       string
	Columns       []Column
	SampleQueries []string
}

// Glob returns the object-store wildcard path addressing every parquet
// file of the conversation corpus in the given bucket.
func Glob(bucket string) string {
	return fmt.Sprintf("s3://%s/tables/%s/**/*.parquet", bucket, TableName)
}

// ConversationEntry builds the immutable table description for a bucket.
func ConversationEntry(bucket string) Table {
	glob := Glob(bucket)
	return Table{
		Name:    TableName,
		Glob:    glob,
		Dialect: Dialect,
		Columns: []Column{
			{Name: "entry_id", Type: "VARCHAR", Description: "Unique identifier (session_id + interaction_id)"},
			{Name: "session_id", Type: "VARCHAR", Description: "Session identifier for grouping conversations"},
			{Name: "interaction_id", Type: "INTEGER", Description: "Sequential number within a session (1, 2, 3...)"},
			{Name: "date", Type: "DATE", Description: "Date of the conversation"},
			{Name: "hour", Type: "INTEGER", Description: "Hour of day (0-23)"},
			{Name: "question", Type: "VARCHAR", Description: "The question asked by the user"},
			{Name: "question_created", Type: "TIMESTAMPTZ", Description: "Timestamp when question was asked"},
			{Name: "answer", Type: "VARCHAR", Description: "The AI response to the question"},
			{Name: "answer_created", Type: "TIMESTAMPTZ", Description: "Timestamp when answer was provided"},
			{Name: "action", Type: "VARCHAR", Description: "Action type (general, orders, msa_agents, inventory, customer_service, safety)"},
			{Name: "user_id", Type: "VARCHAR", Description: "ID of the user who asked the question"},
			{Name: "location_id", Type: "INTEGER", Description: "Store location ID (1001-1499)"},
			{Name: "region_id", Type: "INTEGER", Description: "Regional grouping (100-149)"},
			{Name: "group_id", Type: "INTEGER", Description: "Group identifier (10-24)"},
			{Name: "district_id", Type: "INTEGER", Description: "District identifier (1-14)"},
			{Name: "user_roles", Type: "VARCHAR[]", Description: "Array of user roles (team_member, team_lead, etc.)"},
			{Name: "sources", Type: "STRUCT(name VARCHAR, score FLOAT)[]", Description: "RAG sources with relevance scores"},
		},
		SampleQueries: []string{
			fmt.Sprintf("SELECT COUNT(*) FROM '%s'", glob),
			fmt.Sprintf("SELECT session_id, COUNT(*) AS interactions FROM '%s' GROUP BY session_id", glob),
			fmt.Sprintf("SELECT date, COUNT(*) AS daily_conversations FROM '%s' GROUP BY date ORDER BY date", glob),
			fmt.Sprintf("SELECT action, COUNT(*) AS count FROM '%s' GROUP BY action ORDER BY count DESC", glob),
		},
	}
}
