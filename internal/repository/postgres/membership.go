package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/pkg/errors"
)

const membershipColumns = `
	m.id, m.user_id, m.clinic_id, m.created_at,
	c.id AS "clinic.id", c.name AS "clinic.name"
`

func (r *membershipRepository) Create(ctx context.Context, m *model.Membership) error {
	query := `
		INSERT INTO memberships (
			id, user_id, clinic_id, created_at
		) VALUES ($1, $2, $3, $4)
	`
	m.ID = uuid.New()
	m.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query, m.ID, m.UserID, m.ClinicID, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.NewValidation("user is already a member of this clinic")
		}
		if isForeignKeyViolation(err) {
			return errors.NewNotFound("clinic")
		}
		return fmt.Errorf("failed to create membership: %w", err)
	}
	return nil
}

func (r *membershipRepository) Get(ctx context.Context, id uuid.UUID) (*model.Membership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM memberships m
		JOIN clinics c ON c.id = m.clinic_id
		WHERE m.id = $1
	`
	var m model.Membership
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFound("membership")
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return &m, nil
}

func (r *membershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM memberships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NewNotFound("membership")
	}
	return nil
}

func (r *membershipRepository) List(ctx context.Context) ([]*model.Membership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM memberships m
		JOIN clinics c ON c.id = m.clinic_id
		ORDER BY m.created_at ASC
	`
	memberships := []*model.Membership{}
	if err := r.db.SelectContext(ctx, &memberships, query); err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}

func (r *membershipRepository) ListClinicIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT clinic_id FROM memberships WHERE user_id = $1`

	ids := []uuid.UUID{}
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list membership clinics: %w", err)
	}
	return ids, nil
}
