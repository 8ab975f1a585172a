package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/varun0122/Restaurant-Management/internal/domain/staff"
)

const (
	listStaffSQL = `SELECT id, username, phone, role FROM staff ORDER BY id`

	createStaffSQL = `INSERT INTO staff (username, phone, role) VALUES ($1, $2, $3) RETURNING id`

	updateStaffSQL = `UPDATE staff SET username = $2, phone = $3, role = $4 WHERE id = $1`

	deleteStaffSQL = `DELETE FROM staff WHERE id = $1`
)

var _ staff.Repository = (*StaffRepository)(nil)

// StaffRepository implements staff.Repository backed by PostgreSQL.
type StaffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository returns a StaffRepository that uses the given pool.
func NewStaffRepository(pool *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{pool: pool}
}

// List returns all staff members ordered by ID.
func (r *StaffRepository) List(ctx context.Context) ([]staff.Member, error) {
	rows, err := r.pool.Query(ctx, listStaffSQL)
	if err != nil {
		return nil, fmt.Errorf("listing staff: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (staff.Member, error) {
		var (
			m    staff.Member
			role string
		)
		err := row.Scan(&m.ID, &m.Username, &m.Phone, &role)
		m.Role = staff.Role(role)
		return m, err
	})
}

// Create inserts a new staff member and fills in their assigned ID.
func (r *StaffRepository) Create(ctx context.Context, m *staff.Member) error {
	err := r.pool.QueryRow(ctx, createStaffSQL, m.Username, m.Phone, string(m.Role)).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("creating staff member %q: %w", m.Username, err)
	}
	return nil
}

// Update rewrites an existing staff member.
func (r *StaffRepository) Update(ctx context.Context, m *staff.Member) error {
	tag, err := r.pool.Exec(ctx, updateStaffSQL, m.ID, m.Username, m.Phone, string(m.Role))
	if err != nil {
		return fmt.Errorf("updating staff member %d: %w", m.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return staff.ErrNotFound
	}
	return nil
}

// Delete removes a staff member.
func (r *StaffRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteStaffSQL, id)
	if err != nil {
		return fmt.Errorf("deleting staff member %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return staff.ErrNotFound
	}
	return nil
}
