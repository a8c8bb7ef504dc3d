package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository returns a Postgres-backed implementation of StaffRepository.
func NewStaffRepository(pool *pgxpool.Pool) repository.StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, full_name, auth_uid, department, is_manager, is_admin, created_at, updated_at, deleted_at`

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	const query = `
	SELECT ` + staffColumns + `
	FROM staff
	WHERE id = $1 AND deleted_at IS NULL
	`
	return scanStaff(r.pool.QueryRow(ctx, query, id))
}

func (r *staffRepository) GetByAuthUID(ctx context.Context, authUID string) (*domain.Staff, error) {
	const query = `
	SELECT ` + staffColumns + `
	FROM staff
	WHERE auth_uid = $1 AND deleted_at IS NULL
	`
	staff, err := scanStaff(r.pool.QueryRow(ctx, query, authUID))
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrNoStaffRecord
		}
		return nil, err
	}
	return staff, nil
}

func (r *staffRepository) GetByIDs(ctx context.Context, ids []string) (map[string]domain.Staff, error) {
	result := make(map[string]domain.Staff, len(ids))
	ids = dedupe(ids)
	if len(ids) == 0 {
		return result, nil
	}

	const query = `
	SELECT ` + staffColumns + `
	FROM staff
	WHERE id = ANY($1) AND deleted_at IS NULL
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result[staff.ID] = *staff
	}
	return result, rows.Err()
}

func (r *staffRepository) List(ctx context.Context) ([]domain.Staff, error) {
	const query = `
	SELECT ` + staffColumns + `
	FROM staff
	WHERE deleted_at IS NULL
	ORDER BY full_name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Staff
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *staff)
	}
	return members, rows.Err()
}

func (r *staffRepository) Create(ctx context.Context, staff *domain.Staff) (*domain.Staff, error) {
	if staff == nil {
		return nil, domain.ErrInvalidPayload
	}
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO staff (id, full_name, auth_uid, department, is_manager, is_admin)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		staff.ID,
		staff.FullName,
		staff.AuthUID,
		staff.Department,
		staff.IsManager,
		staff.IsAdmin,
	).Scan(&staff.CreatedAt, &staff.UpdatedAt); err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.Staff) error {
	if staff == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE staff
	SET full_name = $2, department = $3, is_manager = $4, is_admin = $5, updated_at = NOW()
	WHERE id = $1 AND deleted_at IS NULL
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		staff.ID,
		staff.FullName,
		staff.Department,
		staff.IsManager,
		staff.IsAdmin,
	).Scan(&staff.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrStaffNotFound
		}
		return err
	}
	return nil
}

func scanStaff(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Staff, error) {
	var staff domain.Staff
	if err := row.Scan(
		&staff.ID,
		&staff.FullName,
		&staff.AuthUID,
		&staff.Department,
		&staff.IsManager,
		&staff.IsAdmin,
		&staff.CreatedAt,
		&staff.UpdatedAt,
		&staff.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStaffNotFound
		}
		return nil, err
	}
	return &staff, nil
}
