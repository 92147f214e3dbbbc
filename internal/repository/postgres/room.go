package postgres

import (
	"context"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type roomRepository struct {
	BaseRepository
}

func NewRoomRepository(base BaseRepository) repository.RoomRepository {
	return &roomRepository{base}
}

const roomSelect = `
	SELECT rm.id, rm.type, rm.available, rm.department_id, dep.name AS department_name
	FROM rooms rm
	JOIN departments dep ON dep.id = rm.department_id
`

func (r *roomRepository) Create(ctx context.Context, room *model.Room) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO rooms (type, available, department_id) VALUES ($1, $2, $3) RETURNING id`,
		room.Type, room.Available, room.DepartmentID,
	).Scan(&room.ID)
	return mapError("failed to create room", err)
}

func (r *roomRepository) GetByID(ctx context.Context, id int) (*model.Room, error) {
	var room model.Room
	if err := r.db.GetContext(ctx, &room, roomSelect+` WHERE rm.id = $1`, id); err != nil {
		return nil, mapError("failed to get room", err)
	}
	return &room, nil
}

func (r *roomRepository) List(ctx context.Context) ([]*model.Room, error) {
	var rooms []*model.Room
	if err := r.db.SelectContext(ctx, &rooms, roomSelect+` ORDER BY rm.id`); err != nil {
		return nil, mapError("failed to list rooms", err)
	}
	return rooms, nil
}

func (r *roomRepository) ListByDepartment(ctx context.Context, departmentID int) ([]*model.Room, error) {
	var rooms []*model.Room
	if err := r.db.SelectContext(ctx, &rooms, roomSelect+` WHERE rm.department_id = $1 ORDER BY rm.id`, departmentID); err != nil {
		return nil, mapError("failed to list rooms", err)
	}
	return rooms, nil
}

func (r *roomRepository) Update(ctx context.Context, room *model.Room) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET type = $1, available = $2, department_id = $3 WHERE id = $4`,
		room.Type, room.Available, room.DepartmentID, room.ID,
	)
	if err != nil {
		return mapError("failed to update room", err)
	}
	return expectAffected("failed to update room", res)
}

func (r *roomRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return mapError("failed to delete room", err)
	}
	return expectAffected("failed to delete room", res)
}
