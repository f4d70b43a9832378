package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobspace-backend/internal/domain"
)

// records gives one collection of the shared JSONB table a document-store
// API. Ids are not unique; every lookup targets the oldest matching row.
type records struct {
	db         *pgxpool.Pool
	collection string
}

const firstMatch = `(SELECT position FROM records WHERE collection = $1 AND id = $2 ORDER BY position LIMIT 1)`

func (r records) list(ctx context.Context) ([][]byte, error) {
	rows, err := r.db.Query(ctx,
		`SELECT data FROM records WHERE collection = $1 ORDER BY position`, r.collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.collection, err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.collection, err)
		}
		out = append(out, data)
	}
	return out, rows.Err()
}

func (r records) get(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(ctx,
		`SELECT data FROM records WHERE position = `+firstMatch, r.collection, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", r.collection, id, err)
	}
	return data, nil
}

func (r records) insert(ctx context.Context, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO records (collection, id, data) VALUES ($1, $2, $3::jsonb)`,
		r.collection, id, string(data))
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", r.collection, id, err)
	}
	return nil
}

// patch merges the top-level keys of patch into the stored document. The
// id column follows an "id" key of the patch. The merged document goes
// through check before commit; a check error rolls the update back.
func (r records) patch(ctx context.Context, id string, patch domain.Patch, check func([]byte) error) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var data []byte
		err := tx.QueryRow(ctx,
			`UPDATE records
			 SET data = data || $3::jsonb,
			     id = COALESCE($3::jsonb->>'id', id)
			 WHERE position = `+firstMatch+`
			 RETURNING data`,
			r.collection, id, string(body)).Scan(&data)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("patch %s/%s: %w", r.collection, id, err)
		}
		return check(data)
	})
}

// patchAs runs r.patch and decodes the merged document as T.
func patchAs[T any](ctx context.Context, r records, id string, patch domain.Patch) (*T, error) {
	var out *T
	err := r.patch(ctx, id, patch, func(data []byte) error {
		v, err := decodePatched[T](data)
		out = v
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodePatched[T any](data []byte) (*T, error) {
	v, err := decodeOne[T](data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPatch, err)
	}
	return v, nil
}

func (r records) delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM records WHERE position = `+firstMatch, r.collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", r.collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func decodeAll[T any](rows [][]byte) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, data := range rows {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeOne[T any](data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
