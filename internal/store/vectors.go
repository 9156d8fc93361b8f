package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// PutResourceVector upserts the embedding of a resource profile.
func (s *SQLiteStore) PutResourceVector(ctx context.Context, v ResourceVector) error {
	emb, err := json.Marshal(v.Embedding)
	if err != nil {
		return fmt.Errorf("encode embedding: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO resource_vectors (resource_id, profile, embedding, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(resource_id) DO UPDATE SET
		   profile = excluded.profile,
		   embedding = excluded.embedding,
		   updated_at = excluded.updated_at`,
		v.ResourceID, v.Profile, string(emb), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert resource vector: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListResourceVectors(ctx context.Context) ([]ResourceVector, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT resource_id, profile, embedding FROM resource_vectors`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vectors []ResourceVector
	for rows.Next() {
		var v ResourceVector
		var emb string
		if err := rows.Scan(&v.ResourceID, &v.Profile, &emb); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(emb), &v.Embedding); err != nil {
			return nil, fmt.Errorf("decode embedding for %s: %w", v.ResourceID, err)
		}
		vectors = append(vectors, v)
	}
	return vectors, rows.Err()
}
