package sqlite

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/lessondump"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ lessondump.ExportService = (*ExportService)(nil)

// ExportService implements lessondump.ExportService using SQLite.
type ExportService struct {
	db *DB

	// Now returns the export time. Defaults to time.Now.
	Now func() time.Time
}

// NewExportService creates a new ExportService.
func NewExportService(db *DB) *ExportService {
	return &ExportService{db: db}
}

// HashRecord returns the xxHash of rec's JSON form, ignoring the extraction
// timestamp, so that re-extracting unchanged content yields the same hash.
func HashRecord(rec *lessondump.ContentRecord) (string, error) {
	c := *rec
	c.Timestamp = nil
	b, err := json.Marshal(&c)
	if err != nil {
		return "", err
	}
	var sum [8]byte
	binary.BigEndian.PutUint64(sum[:], xxhash.Sum64(b))
	return hex.EncodeToString(sum[:]), nil
}

// CreateExport records an export, generating its ID and timestamp when
// empty.
func (s *ExportService) CreateExport(ctx context.Context, export *lessondump.Export) error {
	if err := export.Validate(); err != nil {
		return err
	}
	if export.ID == "" {
		export.ID = uuid.New().String()
	}
	if export.ExportedAt.IsZero() {
		export.ExportedAt = s.now()
	}
	export.ExportedAt = export.ExportedAt.UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exports (id, url, title, exercise_type, format, destination, content_hash, exported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, export.ID, export.URL, export.Title, string(export.ExerciseType), string(export.Format),
		export.Destination, export.ContentHash, export.ExportedAt.Format(time.RFC3339))
	return err
}

// FindExports retrieves exports matching the filter, newest first.
func (s *ExportService) FindExports(ctx context.Context, filter lessondump.ExportFilter) ([]*lessondump.Export, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, title, exercise_type, format, destination, content_hash, exported_at FROM exports WHERE 1=1")
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.ContentHash != nil {
		query.WriteString(" AND content_hash = ?")
		args = append(args, *filter.ContentHash)
	}
	if filter.Destination != nil {
		query.WriteString(" AND destination = ?")
		args = append(args, *filter.Destination)
	}
	query.WriteString(" ORDER BY exported_at DESC, rowid DESC")
	// SQLite wants a LIMIT before any OFFSET; -1 means unbounded.
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exports := []*lessondump.Export{}
	for rows.Next() {
		var e lessondump.Export
		var exerciseType, format, exportedAt string
		if err := rows.Scan(&e.ID, &e.URL, &e.Title, &exerciseType, &format,
			&e.Destination, &e.ContentHash, &exportedAt); err != nil {
			return nil, err
		}
		e.ExerciseType = lessondump.ExerciseType(exerciseType)
		e.Format = lessondump.ExportFormat(format)
		if e.ExportedAt, err = time.Parse(time.RFC3339, exportedAt); err != nil {
			return nil, fmt.Errorf("export %s: bad exported_at: %w", e.ID, err)
		}
		exports = append(exports, &e)
	}
	return exports, rows.Err()
}

func (s *ExportService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
