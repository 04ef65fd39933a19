package seed

import (
	"bytes"
	"fmt"
	"time"

	"github.com/parquet-go/parquet-go"
)

// parquetEntry is the file schema. The partition keys (date, hour)
// are intentionally absent; the engine reconstructs them from the
// hive directory names.
type parquetEntry struct {
	EntryID         string          `parquet:"entry_id"`
	SessionID       string          `parquet:"session_id"`
	InteractionID   int32           `parquet:"interaction_id"`
	Question        string          `parquet:"question"`
	QuestionCreated time.Time       `parquet:"question_created,timestamp(millisecond)"`
	Answer          string          `parquet:"answer"`
	AnswerCreated   time.Time       `parquet:"answer_created,timestamp(millisecond)"`
	Action          string          `parquet:"action"`
	UserID          string          `parquet:"user_id"`
	LocationID      int32           `parquet:"location_id"`
	RegionID        int32           `parquet:"region_id"`
	GroupID         int32           `parquet:"group_id"`
	DistrictID      int32           `parquet:"district_id"`
	UserRoles       []string        `parquet:"user_roles,list"`
	Sources         []parquetSource `parquet:"sources,list"`
}

type parquetSource struct {
	Name  string  `parquet:"name"`
	Score float32 `parquet:"score"`
}

// EncodeEntries renders one partition's entries as a parquet file.
func EncodeEntries(entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("entries are required")
	}

	rows := make([]parquetEntry, 0, len(entries))
	for _, entry := range entries {
		sources := make([]parquetSource, 0, len(entry.Sources))
		for _, source := range entry.Sources {
			sources = append(sources, parquetSource{Name: source.Name, Score: source.Score})
		}
		rows = append(rows, parquetEntry{
			EntryID:         entry.EntryID,
			SessionID:       entry.SessionID,
			InteractionID:   entry.InteractionID,
			Question:        entry.Question,
			QuestionCreated: entry.QuestionCreated.UTC(),
			Answer:          entry.Answer,
			AnswerCreated:   entry.AnswerCreated.UTC(),
			Action:          entry.Action,
			UserID:          entry.UserID,
			LocationID:      entry.LocationID,
			RegionID:        entry.RegionID,
			GroupID:         entry.GroupID,
			DistrictID:      entry.DistrictID,
			UserRoles:       entry.UserRoles,
			Sources:         sources,
		})
	}

	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[parquetEntry](buf)
	if _, err := writer.Write(rows); err != nil {
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}
