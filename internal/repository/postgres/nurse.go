package postgres

import (
	"context"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type nurseRepository struct {
	BaseRepository
}

func NewNurseRepository(base BaseRepository) repository.NurseRepository {
	return &nurseRepository{base}
}

const nurseSelect = `
	SELECT n.id, n.name, n.ward, n.email, n.phone, n.department_id, dep.name AS department_name
	FROM nurses n
	JOIN departments dep ON dep.id = n.department_id
`

func (r *nurseRepository) Create(ctx context.Context, nurse *model.Nurse) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO nurses (name, ward, email, phone, department_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		nurse.Name, nurse.Ward, nurse.Email, nurse.Phone, nurse.DepartmentID,
	).Scan(&nurse.ID)
	return mapError("failed to create nurse", err)
}

func (r *nurseRepository) GetByID(ctx context.Context, id int) (*model.Nurse, error) {
	var nurse model.Nurse
	if err := r.db.GetContext(ctx, &nurse, nurseSelect+` WHERE n.id = $1`, id); err != nil {
		return nil, mapError("failed to get nurse", err)
	}
	return &nurse, nil
}

func (r *nurseRepository) List(ctx context.Context) ([]*model.Nurse, error) {
	var nurses []*model.Nurse
	if err := r.db.SelectContext(ctx, &nurses, nurseSelect+` ORDER BY n.id`); err != nil {
		return nil, mapError("failed to list nurses", err)
	}
	return nurses, nil
}

func (r *nurseRepository) ListByDepartment(ctx context.Context, departmentID int) ([]*model.Nurse, error) {
	var nurses []*model.Nurse
	if err := r.db.SelectContext(ctx, &nurses, nurseSelect+` WHERE n.department_id = $1 ORDER BY n.id`, departmentID); err != nil {
		return nil, mapError("failed to list nurses", err)
	}
	return nurses, nil
}

func (r *nurseRepository) Update(ctx context.Context, nurse *model.Nurse) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE nurses SET name = $1, ward = $2, email = $3, phone = $4, department_id = $5
		WHERE id = $6`,
		nurse.Name, nurse.Ward, nurse.Email, nurse.Phone, nurse.DepartmentID, nurse.ID,
	)
	if err != nil {
		return mapError("failed to update nurse", err)
	}
	return expectAffected("failed to update nurse", res)
}

func (r *nurseRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM nurses WHERE id = $1`, id)
	if err != nil {
		return mapError("failed to delete nurse", err)
	}
	return expectAffected("failed to delete nurse", res)
}
