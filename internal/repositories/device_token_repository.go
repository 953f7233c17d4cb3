package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DeviceTokenRepository struct {
	DB *pgxpool.Pool
}

func NewDeviceTokenRepository(db *pgxpool.Pool) *DeviceTokenRepository {
	return &DeviceTokenRepository{DB: db}
}

// Upsert registers a push token. Re-registering the same token for the same
// customer refreshes updated_at and the platform instead of erroring.
func (r *DeviceTokenRepository) Upsert(ctx context.Context, customerID, deviceToken, platform string) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO b2c_device_tokens(customer_id, device_token, platform)
		 VALUES($1, $2, $3)
		 ON CONFLICT ON CONSTRAINT b2c_device_tokens_customer_token_key
		 DO UPDATE SET platform=EXCLUDED.platform, updated_at=CURRENT_TIMESTAMP`,
		customerID, deviceToken, platform)
	return err
}
