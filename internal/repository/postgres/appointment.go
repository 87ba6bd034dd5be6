package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicore/clinic-api/internal/access"
	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/pkg/errors"
)

const appointmentColumns = `
	a.id, a.scheduled_at, a.reason, a.status, a.patient_id, a.clinic_id,
	a.created_at, a.updated_at,
	p.id AS "patient.id", p.first_name AS "patient.first_name", p.last_name AS "patient.last_name",
	c.id AS "clinic.id", c.name AS "clinic.name"
`

// lockPatient share-locks the referenced patient row for the duration
// of the transaction. Returns nil when the patient does not exist.
func lockPatient(ctx context.Context, tx *sqlx.Tx, patientID uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT id, first_name, last_name, clinic_id
		FROM patients
		WHERE id = $1
		FOR SHARE
	`
	var patient model.Patient
	err := tx.GetContext(ctx, &patient, query, patientID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock patient row: %w", err)
	}
	return &patient, nil
}

// Create inserts the appointment after the guard has validated it
// against the locked patient row, all in one transaction.
func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment, guard repository.PatientGuard) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		patient, err := lockPatient(ctx, tx, apt.PatientID)
		if err != nil {
			return err
		}
		if err := guard(patient); err != nil {
			return err
		}

		query := `
			INSERT INTO appointments (
				id, scheduled_at, reason, status, patient_id, clinic_id, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		apt.ID = uuid.New()
		apt.CreatedAt = time.Now()
		apt.UpdatedAt = apt.CreatedAt

		_, err = tx.ExecContext(ctx, query,
			apt.ID,
			apt.ScheduledAt,
			apt.Reason,
			apt.Status,
			apt.PatientID,
			apt.ClinicID,
			apt.CreatedAt,
			apt.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		return nil
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN clinics c ON c.id = a.clinic_id
		WHERE a.id = $1
	`
	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFound("appointment")
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment, guard repository.PatientGuard) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		patient, err := lockPatient(ctx, tx, apt.PatientID)
		if err != nil {
			return err
		}
		if err := guard(patient); err != nil {
			return err
		}

		query := `
			UPDATE appointments
			SET scheduled_at = $1, reason = $2, status = $3, patient_id = $4, clinic_id = $5, updated_at = $6
			WHERE id = $7
		`
		apt.UpdatedAt = time.Now()

		result, err := tx.ExecContext(ctx, query,
			apt.ScheduledAt,
			apt.Reason,
			apt.Status,
			apt.PatientID,
			apt.ClinicID,
			apt.UpdatedAt,
			apt.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update appointment: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return errors.NewNotFound("appointment")
		}
		return nil
	})
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NewNotFound("appointment")
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, scope access.Scope, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN clinics c ON c.id = a.clinic_id
		WHERE 1=1
	`
	var args []interface{}
	argCount := 1
	query, args, argCount = scopeClause(query, "a.clinic_id", scope, args, argCount)

	if filters != nil {
		if filters.Status != "" {
			query += fmt.Sprintf(" AND a.status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if filters.PatientID != uuid.Nil {
			query += fmt.Sprintf(" AND a.patient_id = $%d", argCount)
			args = append(args, filters.PatientID)
			argCount++
		}
	}

	query += " ORDER BY a.scheduled_at DESC"

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
