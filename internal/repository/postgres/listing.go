package postgres

import (
	"context"
	"database/sql"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/repository"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	query := `INSERT INTO listings (host_id, name, description, total_quantity, base_price_cents, unit_type, deposit_type, deposit_value, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	l.CreatedOn = now
	l.UpdatedOn = now
	err := r.db.QueryRowContext(ctx, query,
		l.HostID, l.Name, l.Description, l.TotalQuantity, l.BasePriceCents,
		l.UnitType, l.DepositType, l.DepositValue, l.Status, now, now).Scan(&l.ID)
	return translateError(err)
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	l := &domain.Listing{}
	query := `SELECT id, host_id, name, description, total_quantity, base_price_cents, unit_type, deposit_type, deposit_value, status, created_on, updated_on
	          FROM listings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.HostID, &l.Name, &l.Description, &l.TotalQuantity, &l.BasePriceCents,
		&l.UnitType, &l.DepositType, &l.DepositValue, &l.Status, &l.CreatedOn, &l.UpdatedOn)
	if err != nil {
		return nil, translateError(err)
	}
	return l, nil
}

func (r *listingRepository) Update(ctx context.Context, l *domain.Listing) error {
	query := `UPDATE listings SET name=$1, description=$2, total_quantity=$3, base_price_cents=$4, unit_type=$5, deposit_type=$6, deposit_value=$7, updated_on=$8
	          WHERE id=$9 AND status='ACTIVE'`
	res, err := r.db.ExecContext(ctx, query,
		l.Name, l.Description, l.TotalQuantity, l.BasePriceCents,
		l.UnitType, l.DepositType, l.DepositValue, time.Now(), l.ID)
	if err != nil {
		return translateError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *listingRepository) Archive(ctx context.Context, id int64) error {
	query := `UPDATE listings SET status='ARCHIVED', updated_on=$1 WHERE id=$2`
	res, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return translateError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *listingRepository) ListByHost(ctx context.Context, hostID int64, page, pageSize int32) ([]domain.Listing, int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM listings WHERE host_id = $1 AND status = 'ACTIVE'`, hostID).Scan(&count)
	if err != nil {
		return nil, 0, translateError(err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, host_id, name, description, total_quantity, base_price_cents, unit_type, deposit_type, deposit_value, status, created_on, updated_on
	          FROM listings WHERE host_id = $1 AND status = 'ACTIVE' ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, hostID, pageSize, offset)
	if err != nil {
		return nil, 0, translateError(err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(&l.ID, &l.HostID, &l.Name, &l.Description, &l.TotalQuantity, &l.BasePriceCents,
			&l.UnitType, &l.DepositType, &l.DepositValue, &l.Status, &l.CreatedOn, &l.UpdatedOn); err != nil {
			return nil, 0, err
		}
		listings = append(listings, l)
	}
	return listings, count, rows.Err()
}
