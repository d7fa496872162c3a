package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DocumentRepository struct {
	db dbtx
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: pool}
}

func NewDocumentRepositoryWithTx(tx pgx.Tx) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

// ListAll returns every document in id order, which is the knowledge base order.
func (r *DocumentRepository) ListAll(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, content, type, updated_at FROM documents ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.Type, &d.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	var d domain.Document
	err := r.db.QueryRow(ctx,
		`SELECT id, title, content, type, updated_at FROM documents WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Title, &d.Content, &d.Type, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now().UTC()
	}
	return r.db.QueryRow(ctx,
		`INSERT INTO documents (title, content, type, updated_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		d.Title, d.Content, d.Type, d.UpdatedAt,
	).Scan(&d.ID)
}

func (r *DocumentRepository) Update(ctx context.Context, d *domain.Document) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE documents SET title = $1, content = $2, type = $3, updated_at = $4 WHERE id = $5`,
		d.Title, d.Content, d.Type, d.UpdatedAt, d.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// Seed inserts docs with their ids in one transaction and moves the id
// sequence past the largest one.
func (r *DocumentRepository) Seed(ctx context.Context, docs []domain.Document) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, d := range docs {
			_, err := tx.Exec(ctx,
				`INSERT INTO documents (id, title, content, type, updated_at)
				 VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (id) DO NOTHING`,
				d.ID, d.Title, d.Content, d.Type, d.UpdatedAt,
			)
			if err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx,
			`SELECT setval(pg_get_serial_sequence('documents', 'id'), COALESCE((SELECT MAX(id) FROM documents), 1))`,
		)
		return err
	})
}

func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}
