package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bomino/newgrader/internal/models"
)

// SettingRepository manages key/value configuration rows.
type SettingRepository struct {
	db *sqlx.DB
}

// NewSettingRepository constructs a new setting repository.
func NewSettingRepository(db *sqlx.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get returns a setting row, or sql.ErrNoRows when absent.
func (r *SettingRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.GetContext(ctx, &setting, "SELECT key, value FROM settings WHERE key = $1", key); err != nil {
		return nil, err
	}
	return &setting, nil
}

// Upsert writes a setting, overwriting any prior value.
func (r *SettingRepository) Upsert(ctx context.Context, key, value string) error {
	const query = `INSERT INTO settings (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
