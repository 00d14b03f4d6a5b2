package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samandr77/microservices/portal/internal/entity"
)

type OrgContextRepository struct {
	db *pgxpool.Pool
}

func NewOrgContextRepository(db *pgxpool.Pool) *OrgContextRepository {
	return &OrgContextRepository{db: db}
}

func (r *OrgContextRepository) OrgContextByUserID(ctx context.Context, userID string) (entity.OrgContext, error) {
	stmt := sq.Select("user_id", "pharmacy_id", "pharmacy_name", "location_id", "location_name", "updated_at").
		From("org_contexts").
		Where(sq.Eq{"user_id": userID}).
		PlaceholderFormat(sq.Dollar)

	sqlQuery, args, err := stmt.ToSql()
	if err != nil {
		return entity.OrgContext{}, fmt.Errorf("build query: %w", err)
	}

	var org entity.OrgContext

	err = r.db.QueryRow(ctx, sqlQuery, args...).Scan(
		&org.UserID,
		&org.PharmacyID,
		&org.PharmacyName,
		&org.LocationID,
		&org.LocationName,
		&org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.OrgContext{}, entity.ErrNotFound
		}

		return entity.OrgContext{}, err
	}

	return org, nil
}

func (r *OrgContextRepository) SaveOrgContext(ctx context.Context, org entity.OrgContext) error {
	if org.UpdatedAt.IsZero() {
		org.UpdatedAt = time.Now().UTC()
	}

	stmt := sq.Insert("org_contexts").
		Columns("user_id", "pharmacy_id", "pharmacy_name", "location_id", "location_name", "updated_at").
		Values(org.UserID, org.PharmacyID, org.PharmacyName, org.LocationID, org.LocationName, org.UpdatedAt).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			pharmacy_id = EXCLUDED.pharmacy_id,
			pharmacy_name = EXCLUDED.pharmacy_name,
			location_id = EXCLUDED.location_id,
			location_name = EXCLUDED.location_name,
			updated_at = EXCLUDED.updated_at`).
		PlaceholderFormat(sq.Dollar)

	sqlQuery, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	_, err = r.db.Exec(ctx, sqlQuery, args...)
	if err != nil {
		return err
	}

	return nil
}

func (r *OrgContextRepository) DeleteOrgContext(ctx context.Context, userID string) error {
	sqlQuery, args, err := sq.Delete("org_contexts").
		Where(sq.Eq{"user_id": userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	_, err = r.db.Exec(ctx, sqlQuery, args...)
	if err != nil {
		return err
	}

	return nil
}

// DeleteStale removes contexts not touched since before and returns how many
// were removed.
func (r *OrgContextRepository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	sqlQuery, args, err := sq.Delete("org_contexts").
		Where(sq.Lt{"updated_at": before}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlQuery, args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
