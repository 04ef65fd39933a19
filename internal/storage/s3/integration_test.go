//go:build integration

package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/lenzenc/convo/internal/storage"
)

func TestStoreRoundTripAgainstMinIO(t *testing.T) {
	endpoint := envOr("CONVO_TEST_S3_ENDPOINT", "")
	if endpoint == "" {
		t.Skip("CONVO_TEST_S3_ENDPOINT is not set")
	}

	cfg := Config{
		Endpoint:         endpoint,
		Region:           envOr("CONVO_TEST_S3_REGION", "us-east-1"),
		Bucket:           envOr("CONVO_TEST_S3_BUCKET", "convo-it"),
		AccessKeyID:      envOr("CONVO_TEST_S3_ACCESS_KEY", "minioadmin"),
		SecretAccessKey:  envOr("CONVO_TEST_S3_SECRET_KEY", "minioadmin123"),
		UseSSL:           false,
		AutoCreateBucket: true,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	store, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	key := "tables/conversation_entry/date=2025-01-01/hour=0/part-00000.parquet"
	payload := []byte("convo-integration")

	if _, err := store.Put(ctx, key, bytes.NewReader(payload), int64(len(payload)), storage.PutOptions{ContentType: "application/octet-stream"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	infos, err := store.List(ctx, storage.TablePrefix, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(infos) == 0 {
		t.Fatal("List() returned no objects")
	}

	reader, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	readPayload, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("io.ReadAll() error = %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("reader.Close() error = %v", err)
	}
	if !bytes.Equal(readPayload, payload) {
		t.Fatalf("Get() payload = %q, want %q", string(readPayload), string(payload))
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Stat(ctx, key); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("Stat() after delete error = %v, want ErrObjectNotFound", err)
	}
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
