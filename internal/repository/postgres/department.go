package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type departmentRepository struct {
	BaseRepository
}

func NewDepartmentRepository(base BaseRepository) repository.DepartmentRepository {
	return &departmentRepository{base}
}

const departmentSelect = `
	SELECT dep.id, dep.name,
		(SELECT COUNT(*) FROM doctors d WHERE d.department_id = dep.id) AS doctor_count,
		(SELECT COUNT(*) FROM nurses n WHERE n.department_id = dep.id) AS nurse_count,
		(SELECT COUNT(*) FROM rooms rm WHERE rm.department_id = dep.id) AS room_count
	FROM departments dep
`

func (r *departmentRepository) Create(ctx context.Context, dept *model.Department) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO departments (name) VALUES ($1) RETURNING id`, dept.Name,
	).Scan(&dept.ID)
	return mapError("failed to create department", err)
}

func (r *departmentRepository) GetByID(ctx context.Context, id int) (*model.Department, error) {
	var dept model.Department
	if err := r.db.GetContext(ctx, &dept, departmentSelect+` WHERE dep.id = $1`, id); err != nil {
		return nil, mapError("failed to get department", err)
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]*model.Department, error) {
	var depts []*model.Department
	if err := r.db.SelectContext(ctx, &depts, departmentSelect+` ORDER BY dep.id`); err != nil {
		return nil, mapError("failed to list departments", err)
	}
	return depts, nil
}

func (r *departmentRepository) Update(ctx context.Context, dept *model.Department) error {
	res, err := r.db.ExecContext(ctx, `UPDATE departments SET name = $1 WHERE id = $2`, dept.Name, dept.ID)
	if err != nil {
		return mapError("failed to update department", err)
	}
	return expectAffected("failed to update department", res)
}

// Delete fans out over the department's doctors, nurses and rooms inside one
// transaction, then removes the department row.
func (r *departmentRepository) Delete(ctx context.Context, id int) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var doctorIDs []int
		if err := tx.SelectContext(ctx, &doctorIDs, `SELECT id FROM doctors WHERE department_id = $1 ORDER BY id`, id); err != nil {
			return mapError("failed to list department doctors", err)
		}
		for _, doctorID := range doctorIDs {
			if err := deleteDoctorTx(ctx, tx, doctorID); err != nil {
				return err
			}
		}

		var nurseIDs []int
		if err := tx.SelectContext(ctx, &nurseIDs, `SELECT id FROM nurses WHERE department_id = $1 ORDER BY id`, id); err != nil {
			return mapError("failed to list department nurses", err)
		}
		for _, nurseID := range nurseIDs {
			if _, err := tx.ExecContext(ctx, `UPDATE lab_results SET nurse_id = NULL WHERE nurse_id = $1`, nurseID); err != nil {
				return mapError("failed to detach nurse lab results", err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM nurses WHERE id = $1`, nurseID); err != nil {
				return mapError("failed to delete nurse", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE department_id = $1`, id); err != nil {
			return mapError("failed to delete department rooms", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
		if err != nil {
			return mapError("failed to delete department", err)
		}
		return expectAffected("failed to delete department", res)
	})
}

func deleteDoctorTx(ctx context.Context, tx *sqlx.Tx, doctorID int) error {
	steps := []struct {
		op    string
		query string
	}{
		{"failed to delete doctor appointments", `DELETE FROM appointments WHERE doctor_id = $1`},
		{"failed to delete doctor prescriptions", `DELETE FROM prescriptions WHERE doctor_id = $1`},
		{"failed to detach doctor lab results", `UPDATE lab_results SET doctor_id = NULL WHERE doctor_id = $1`},
		{"failed to detach doctor patients", `UPDATE patients SET doctor_id = NULL WHERE doctor_id = $1`},
		{"failed to delete doctor", `DELETE FROM doctors WHERE id = $1`},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.query, doctorID); err != nil {
			return mapError(step.op, err)
		}
	}
	return nil
}
