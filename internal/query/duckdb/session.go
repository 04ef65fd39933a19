// Package duckdb provides an embedded DuckDB session configured to read
// the conversation corpus straight from the object store over httpfs.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/lenzenc/convo/internal/query"
)

type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Session wraps one in-memory DuckDB connection. Not safe for
// concurrent use; open one per in-flight request.
type Session struct {
	db *sql.DB
}

// Open initializes the engine, loads the httpfs extension, and applies
// the S3 settings so that s3:// globs resolve against the configured
// endpoint with path-style addressing.
func Open(cfg Config) (*Session, error) {
	host, useSSL, err := splitEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, &query.InitError{Cause: err}
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, &query.InitError{Cause: fmt.Errorf("open duckdb: %w", err)}
	}

	setup := []string{
		"INSTALL httpfs",
		"LOAD httpfs",
		fmt.Sprintf("SET s3_endpoint = '%s'", escapeLiteral(host)),
		fmt.Sprintf("SET s3_access_key_id = '%s'", escapeLiteral(cfg.AccessKeyID)),
		fmt.Sprintf("SET s3_secret_access_key = '%s'", escapeLiteral(cfg.SecretAccessKey)),
		fmt.Sprintf("SET s3_use_ssl = %t", useSSL),
		"SET s3_url_style = 'path'",
	}
	for _, stmt := range setup {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, &query.InitError{Cause: fmt.Errorf("engine setup %q: %w", stmt, err)}
		}
	}

	return &Session{db: db}, nil
}

func (s *Session) Execute(ctx context.Context, sqlText string) (query.Rows, error) {
	if strings.TrimSpace(sqlText) == "" {
		return query.Rows{}, &query.SQLError{Message: "sql is required", SQL: sqlText}
	}

	rows, err := s.db.QueryContext(ctx, sqlText)
	if err != nil {
		return query.Rows{}, &query.SQLError{Message: err.Error(), SQL: sqlText}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return query.Rows{}, &query.SQLError{Message: err.Error(), SQL: sqlText}
	}
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return query.Rows{}, &query.SQLError{Message: err.Error(), SQL: sqlText}
	}
	typeNames := make([]string, len(columnTypes))
	for i, columnType := range columnTypes {
		typeNames[i] = columnType.DatabaseTypeName()
	}

	values := make([][]any, 0)
	for rows.Next() {
		row := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range row {
			scanTargets[i] = &row[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return query.Rows{}, &query.SQLError{Message: err.Error(), SQL: sqlText}
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return query.Rows{}, &query.SQLError{Message: err.Error(), SQL: sqlText}
	}

	return query.Rows{Columns: columns, Types: typeNames, Values: values}, nil
}

func (s *Session) Close() error {
	return s.db.Close()
}

// splitEndpoint strips the scheme for DuckDB's s3_endpoint setting and
// derives TLS use from it.
func splitEndpoint(raw string) (string, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("object store endpoint is required")
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		parsed, err := url.Parse(raw)
		if err != nil {
			return "", false, fmt.Errorf("parse endpoint URL: %w", err)
		}
		if parsed.Host == "" {
			return "", false, fmt.Errorf("endpoint host is required")
		}
		return parsed.Host, parsed.Scheme == "https", nil
	}
	return raw, false, nil
}

func escapeLiteral(value string) string {
	return strings.ReplaceAll(value, `'`, `''`)
}
