package storage

import (
	"fmt"
	"path"
	"time"
)

// TablePrefix is the key prefix under which every corpus parquet file
// lives. The engine's read glob and the seeder's write paths must
// agree on it.
const TablePrefix = "tables/conversation_entry"

// BuildEntryFilePath returns the hive-partitioned object key for one
// parquet part file. The date and hour appear only in the path, never
// as file columns; the engine reconstructs them from the partition
// directories.
func BuildEntryFilePath(day time.Time, hour, sequence int) (string, error) {
	if hour < 0 || hour > 23 {
		return "", fmt.Errorf("hour must be in 0..23, got %d", hour)
	}
	if sequence < 0 {
		return "", fmt.Errorf("sequence must be >= 0, got %d", sequence)
	}
	return path.Join(
		TablePrefix,
		fmt.Sprintf("date=%s", day.UTC().Format("2006-01-02")),
		fmt.Sprintf("hour=%d", hour),
		fmt.Sprintf("part-%05d.parquet", sequence),
	), nil
}
