package repository

import (
	"context"
	"database/sql"
)

// MediaRepo records the association between externally stored proof files
// and the request or donation they belong to.  The files themselves live
// in the front end's storage provider; this service only keeps URLs.
type MediaRepo struct{ DB *sql.DB }

func NewMediaRepo(db *sql.DB) *MediaRepo { return &MediaRepo{DB: db} }

// Add inserts proof URLs for an entity.  Empty slices are a no-op.
func (r *MediaRepo) Add(ctx context.Context, relatedType string, relatedID uint64, urls []string) error {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, err := r.DB.ExecContext(ctx,
			"INSERT INTO proof_documents (related_type, related_id, url) VALUES (?,?,?)",
			relatedType, relatedID, u); err != nil {
			return err
		}
	}
	return nil
}

// ListFor returns the proof URLs attached to an entity, oldest first.
func (r *MediaRepo) ListFor(ctx context.Context, relatedType string, relatedID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT url FROM proof_documents WHERE related_type=? AND related_id=? ORDER BY id",
		relatedType, relatedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// DeleteFor removes all proof rows for an entity.  Called when the owning
// request or donation is deleted.
func (r *MediaRepo) DeleteFor(ctx context.Context, relatedType string, relatedID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM proof_documents WHERE related_type=? AND related_id=?",
		relatedType, relatedID)
	return err
}
