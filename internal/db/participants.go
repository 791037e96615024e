package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/susu3304/classbot/internal/model"
)

const participantColumns = "id, username, name, role, registered_at"

func scanParticipant(row interface{ Scan(...any) error }) (*model.Participant, error) {
	var p model.Participant
	var role string
	if err := row.Scan(&p.ID, &p.Username, &p.Name, &role, &p.RegisteredAt); err != nil {
		return nil, err
	}
	p.Role = model.Role(role)
	p.RegisteredAt = p.RegisteredAt.UTC()
	return &p, nil
}

func (db *DB) GetParticipant(ctx context.Context, id int64) (*model.Participant, error) {
	p, err := scanParticipant(db.queryRow(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant %d: %w", id, err)
	}
	return p, nil
}

// CreateParticipant inserts p unless a participant with the same id exists.
// It reports whether a row was inserted.
func (db *DB) CreateParticipant(ctx context.Context, p *model.Participant) (bool, error) {
	res, err := db.exec(ctx,
		`INSERT INTO participants (id, username, name, role, registered_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		p.ID, p.Username, p.Name, string(p.Role), p.RegisteredAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create participant %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (db *DB) SetRole(ctx context.Context, id int64, role model.Role) error {
	res, err := db.exec(ctx, "UPDATE participants SET role = $2 WHERE id = $1", id, string(role))
	if err != nil {
		return fmt.Errorf("failed to set role for %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) ListByRole(ctx context.Context, role model.Role) ([]model.Participant, error) {
	rows, err := db.query(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE role = $1 ORDER BY name, id", string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s participants: %w", role, err)
	}
	defer rows.Close()

	var out []model.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (db *DB) CountByRole(ctx context.Context) (map[model.Role]int, error) {
	rows, err := db.query(ctx, "SELECT role, COUNT(*) FROM participants GROUP BY role")
	if err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Role]int)
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		counts[model.Role(role)] = n
	}
	return counts, rows.Err()
}
