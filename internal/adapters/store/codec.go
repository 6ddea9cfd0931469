package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mikey/moodiary/internal/core"
)

// row holds the serialized columns of an entry
type row struct {
	tags       string
	imagePaths string
	analysis   sql.NullString
}

func encodeEntry(e *core.Entry) (row, error) {
	tags, err := json.Marshal(nonNil(e.Tags))
	if err != nil {
		return row{}, fmt.Errorf("failed to encode tags: %w", err)
	}
	images, err := json.Marshal(nonNil(e.ImagePaths))
	if err != nil {
		return row{}, fmt.Errorf("failed to encode image paths: %w", err)
	}

	r := row{tags: string(tags), imagePaths: string(images)}
	if e.Analysis != nil {
		analysis, err := json.Marshal(e.Analysis)
		if err != nil {
			return row{}, fmt.Errorf("failed to encode analysis: %w", err)
		}
		r.analysis = sql.NullString{String: string(analysis), Valid: true}
	}
	return r, nil
}

func decodeEntry(e *core.Entry, r row) error {
	if err := json.Unmarshal([]byte(r.tags), &e.Tags); err != nil {
		return fmt.Errorf("failed to decode tags of entry %s: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(r.imagePaths), &e.ImagePaths); err != nil {
		return fmt.Errorf("failed to decode image paths of entry %s: %w", e.ID, err)
	}
	if r.analysis.Valid {
		var analysis core.AnalysisResult
		if err := json.Unmarshal([]byte(r.analysis.String), &analysis); err != nil {
			return fmt.Errorf("failed to decode analysis of entry %s: %w", e.ID, err)
		}
		e.Analysis = &analysis
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", core.ErrNotFound, id)
}
