package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"recycle-backend/internal/models"
)

type SMSLogRepository struct {
	DB *pgxpool.Pool
}

func NewSMSLogRepository(db *pgxpool.Pool) *SMSLogRepository {
	return &SMSLogRepository{DB: db}
}

func (r *SMSLogRepository) Create(ctx context.Context, entry *models.SMSLog) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO sms_logs(mobile, purpose, status, detail)
		 VALUES($1, $2, $3, $4)
		 RETURNING id, created_at`,
		entry.Mobile, entry.Purpose, entry.Status, entry.Detail,
	).Scan(&entry.ID, &entry.CreatedAt)
}
