package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rentledger/internal/domain"
	"rentledger/internal/repository"
)

const createCarsTable = `
CREATE TABLE IF NOT EXISTS cars (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	img_url TEXT NOT NULL DEFAULT '',
	rent_fee INTEGER NOT NULL,
	sale_fee INTEGER NOT NULL,
	status TEXT NOT NULL,
	renter_id TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type CarRepository struct {
	db DBTX
}

func newCarRepository(db DBTX) *CarRepository {
	return &CarRepository{db: db}
}

func NewCarRepository(db *sql.DB) repository.CarRepository {
	return newCarRepository(db)
}

func (r *CarRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCarsTable); err != nil {
		return fmt.Errorf("create cars table: %w", err)
	}
	return nil
}

func (r *CarRepository) Create(ctx context.Context, car *domain.Car) (int64, error) {
	now := time.Now().UTC()
	car.CreatedAt = now
	car.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO cars (name, img_url, rent_fee, sale_fee, status, renter_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		car.Name,
		car.ImageURL,
		car.RentFee,
		car.SaleFee,
		string(car.Status),
		car.RenterID,
		car.CreatedAt,
		car.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert car: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("car last insert id: %w", err)
	}
	car.ID = id
	return id, nil
}

func (r *CarRepository) Get(ctx context.Context, id int64) (*domain.Car, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, img_url, rent_fee, sale_fee, status, renter_id, created_at, updated_at
FROM cars
WHERE id = ?`,
		id,
	)

	var car domain.Car
	if err := row.Scan(
		&car.ID,
		&car.Name,
		&car.ImageURL,
		&car.RentFee,
		&car.SaleFee,
		&car.Status,
		&car.RenterID,
		&car.CreatedAt,
		&car.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan car: %w", err)
	}
	return &car, nil
}

func (r *CarRepository) Update(ctx context.Context, car *domain.Car) error {
	car.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE cars
SET name = ?, img_url = ?, rent_fee = ?, sale_fee = ?, status = ?, renter_id = ?, updated_at = ?
WHERE id = ?`,
		car.Name,
		car.ImageURL,
		car.RentFee,
		car.SaleFee,
		string(car.Status),
		car.RenterID,
		car.UpdatedAt,
		car.ID,
	)
	if err != nil {
		return fmt.Errorf("update car: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update car rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CarRepository) ListByStatus(ctx context.Context, status domain.CarStatus) ([]domain.Car, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, img_url, rent_fee, sale_fee, status, renter_id, created_at, updated_at
FROM cars
WHERE status = ?
ORDER BY id ASC`,
		string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("list cars by status: %w", err)
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		var car domain.Car
		if err := rows.Scan(
			&car.ID,
			&car.Name,
			&car.ImageURL,
			&car.RentFee,
			&car.SaleFee,
			&car.Status,
			&car.RenterID,
			&car.CreatedAt,
			&car.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan car row: %w", err)
		}
		cars = append(cars, car)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate car rows: %w", err)
	}
	return cars, nil
}

func (r *CarRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cars: %w", err)
	}
	return count, nil
}

var _ repository.CarRepository = (*CarRepository)(nil)
