package repository

import (
	"context"
	"encoding/json"

	"github.com/cloo-solutions/supporthub/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatLogRepository stores chat turn outcomes for the analytics view.
type ChatLogRepository struct {
	db dbtx
}

func NewChatLogRepository(pool *pgxpool.Pool) *ChatLogRepository {
	return &ChatLogRepository{db: pool}
}

func (r *ChatLogRepository) Create(ctx context.Context, entry *domain.ChatLog) error {
	ids := entry.MatchedIDs
	if ids == nil {
		ids = []int64{}
	}
	matchedJSON, _ := json.Marshal(ids)

	_, err := r.db.Exec(ctx,
		`INSERT INTO chat_logs (id, message, matched_ids, ticket_offered, failed, duration_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID,
		entry.Message,
		matchedJSON,
		entry.TicketOffered,
		entry.Failed,
		entry.DurationMs,
		entry.CreatedAt,
	)
	return err
}

func (r *ChatLogRepository) Stats(ctx context.Context) (*domain.ChatStats, error) {
	var s domain.ChatStats
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE failed),
		        COUNT(*) FILTER (WHERE ticket_offered AND NOT failed),
		        COALESCE(AVG(duration_ms), 0)::float8
		 FROM chat_logs`,
	).Scan(&s.TotalChats, &s.FailedChats, &s.TicketsOffered, &s.AvgDurationMs)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// TopQueries groups messages case-insensitively, most frequent first.
func (r *ChatLogRepository) TopQueries(ctx context.Context, limit int) ([]domain.QueryCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT lower(message) AS query, COUNT(*) AS n
		 FROM chat_logs
		 GROUP BY query
		 ORDER BY n DESC, query ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.QueryCount{}
	for rows.Next() {
		var qc domain.QueryCount
		if err := rows.Scan(&qc.Query, &qc.Count); err != nil {
			return nil, err
		}
		out = append(out, qc)
	}
	return out, rows.Err()
}
