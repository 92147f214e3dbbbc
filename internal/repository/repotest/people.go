package repotest

import (
	"context"

	"github.com/jwalitptl/hospital-api/internal/model"
)

type PatientRepository struct{ s *Store }

func NewPatientRepository(s *Store) *PatientRepository {
	if s == nil {
		s = NewStore()
	}
	return &PatientRepository{s: s}
}

func (r *PatientRepository) view(p model.Patient) *model.Patient {
	p.DoctorName = r.s.doctorName(p.DoctorID)
	return &p
}

func (r *PatientRepository) Create(_ context.Context, p *model.Patient) error {
	err := r.s.lock("Patient.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if p.DoctorID != nil {
		if _, ok := r.s.doctors[*p.DoctorID]; !ok {
			return referenced("failed to create patient")
		}
	}
	p.ID = r.s.nextID()
	r.s.patients[p.ID] = *p
	return nil
}

func (r *PatientRepository) GetByID(_ context.Context, id int) (*model.Patient, error) {
	err := r.s.lock("Patient.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	p, ok := r.s.patients[id]
	if !ok {
		return nil, notFound("failed to get patient")
	}
	return r.view(p), nil
}

func (r *PatientRepository) List(_ context.Context) ([]*model.Patient, error) {
	err := r.s.lock("Patient.List")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []*model.Patient{}
	for _, id := range sortedKeys(r.s.patients) {
		out = append(out, r.view(r.s.patients[id]))
	}
	return out, nil
}

func (r *PatientRepository) Update(_ context.Context, p *model.Patient) error {
	err := r.s.lock("Patient.Update")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.patients[p.ID]; !ok {
		return notFound("failed to update patient")
	}
	if p.DoctorID != nil {
		if _, ok := r.s.doctors[*p.DoctorID]; !ok {
			return referenced("failed to update patient")
		}
	}
	r.s.patients[p.ID] = *p
	return nil
}

// Delete mirrors the transactional fan-out: a failure at any step restores every row.
func (r *PatientRepository) Delete(_ context.Context, id int) error {
	err := r.s.lock("Patient.Delete")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.patients[id]; !ok {
		return notFound("failed to delete patient")
	}
	rollback := r.s.begin()
	for k, a := range r.s.appointments {
		if a.PatientID == id {
			delete(r.s.appointments, k)
		}
	}
	if err := r.s.step("Patient.Delete.invoices"); err != nil {
		rollback()
		return err
	}
	for k, inv := range r.s.invoices {
		if inv.PatientID != id {
			continue
		}
		for pk, p := range r.s.payments {
			if p.InvoiceID == k {
				delete(r.s.payments, pk)
			}
		}
		delete(r.s.invoices, k)
	}
	for k, l := range r.s.labResults {
		if l.PatientID == id {
			delete(r.s.labResults, k)
		}
	}
	for k, p := range r.s.prescriptions {
		if p.PatientID == id {
			delete(r.s.prescriptions, k)
		}
	}
	for k, rec := range r.s.records {
		if rec.PatientID != id {
			continue
		}
		for ek, e := range r.s.entries {
			if e.RecordID == k {
				delete(r.s.entries, ek)
			}
		}
		delete(r.s.records, k)
	}
	delete(r.s.patients, id)
	return nil
}

type DoctorRepository struct{ s *Store }

func NewDoctorRepository(s *Store) *DoctorRepository {
	if s == nil {
		s = NewStore()
	}
	return &DoctorRepository{s: s}
}

func (r *DoctorRepository) view(d model.Doctor) *model.Doctor {
	d.DepartmentName = r.s.departmentName(d.DepartmentID)
	return &d
}

func (r *DoctorRepository) Create(_ context.Context, d *model.Doctor) error {
	err := r.s.lock("Doctor.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.departments[d.DepartmentID]; !ok {
		return referenced("failed to create doctor")
	}
	d.ID = r.s.nextID()
	r.s.doctors[d.ID] = *d
	return nil
}

func (r *DoctorRepository) GetByID(_ context.Context, id int) (*model.Doctor, error) {
	err := r.s.lock("Doctor.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	d, ok := r.s.doctors[id]
	if !ok {
		return nil, notFound("failed to get doctor")
	}
	return r.view(d), nil
}

func (r *DoctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	return r.filter("Doctor.List", func(model.Doctor) bool { return true })
}

func (r *DoctorRepository) ListByDepartment(_ context.Context, departmentID int) ([]*model.Doctor, error) {
	return r.filter("Doctor.ListByDepartment", func(d model.Doctor) bool { return d.DepartmentID == departmentID })
}

func (r *DoctorRepository) filter(op string, keep func(model.Doctor) bool) ([]*model.Doctor, error) {
	err := r.s.lock(op)
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []*model.Doctor{}
	for _, id := range sortedKeys(r.s.doctors) {
		if d := r.s.doctors[id]; keep(d) {
			out = append(out, r.view(d))
		}
	}
	return out, nil
}

func (r *DoctorRepository) Update(_ context.Context, d *model.Doctor) error {
	err := r.s.lock("Doctor.Update")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.doctors[d.ID]; !ok {
		return notFound("failed to update doctor")
	}
	if _, ok := r.s.departments[d.DepartmentID]; !ok {
		return referenced("failed to update doctor")
	}
	r.s.doctors[d.ID] = *d
	return nil
}

func (r *DoctorRepository) Delete(_ context.Context, id int) error {
	err := r.s.lock("Doctor.Delete")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.doctors[id]; !ok {
		return notFound("failed to delete doctor")
	}
	for _, a := range r.s.appointments {
		if a.DoctorID == id {
			return referenced("failed to delete doctor")
		}
	}
	for _, p := range r.s.prescriptions {
		if p.DoctorID == id {
			return referenced("failed to delete doctor")
		}
	}
	r.s.detachDoctor(id)
	delete(r.s.doctors, id)
	return nil
}

func (s *Store) detachDoctor(id int) {
	for k, l := range s.labResults {
		if l.DoctorID != nil && *l.DoctorID == id {
			l.DoctorID = nil
			s.labResults[k] = l
		}
	}
	for k, p := range s.patients {
		if p.DoctorID != nil && *p.DoctorID == id {
			p.DoctorID = nil
			s.patients[k] = p
		}
	}
}

func (s *Store) detachNurse(id int) {
	for k, l := range s.labResults {
		if l.NurseID != nil && *l.NurseID == id {
			l.NurseID = nil
			s.labResults[k] = l
		}
	}
}

type NurseRepository struct{ s *Store }

func NewNurseRepository(s *Store) *NurseRepository {
	if s == nil {
		s = NewStore()
	}
	return &NurseRepository{s: s}
}

func (r *NurseRepository) view(n model.Nurse) *model.Nurse {
	n.DepartmentName = r.s.departmentName(n.DepartmentID)
	return &n
}

func (r *NurseRepository) Create(_ context.Context, n *model.Nurse) error {
	err := r.s.lock("Nurse.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.departments[n.DepartmentID]; !ok {
		return referenced("failed to create nurse")
	}
	n.ID = r.s.nextID()
	r.s.nurses[n.ID] = *n
	return nil
}

func (r *NurseRepository) GetByID(_ context.Context, id int) (*model.Nurse, error) {
	err := r.s.lock("Nurse.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	n, ok := r.s.nurses[id]
	if !ok {
		return nil, notFound("failed to get nurse")
	}
	return r.view(n), nil
}

func (r *NurseRepository) List(_ context.Context) ([]*model.Nurse, error) {
	return r.filter("Nurse.List", func(model.Nurse) bool { return true })
}

func (r *NurseRepository) ListByDepartment(_ context.Context, departmentID int) ([]*model.Nurse, error) {
	return r.filter("Nurse.ListByDepartment", func(n model.Nurse) bool { return n.DepartmentID == departmentID })
}

func (r *NurseRepository) filter(op string, keep func(model.Nurse) bool) ([]*model.Nurse, error) {
	err := r.s.lock(op)
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []*model.Nurse{}
	for _, id := range sortedKeys(r.s.nurses) {
		if n := r.s.nurses[id]; keep(n) {
			out = append(out, r.view(n))
		}
	}
	return out, nil
}

func (r *NurseRepository) Update(_ context.Context, n *model.Nurse) error {
	err := r.s.lock("Nurse.Update")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.nurses[n.ID]; !ok {
		return notFound("failed to update nurse")
	}
	if _, ok := r.s.departments[n.DepartmentID]; !ok {
		return referenced("failed to update nurse")
	}
	r.s.nurses[n.ID] = *n
	return nil
}

func (r *NurseRepository) Delete(_ context.Context, id int) error {
	err := r.s.lock("Nurse.Delete")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.nurses[id]; !ok {
		return notFound("failed to delete nurse")
	}
	r.s.detachNurse(id)
	delete(r.s.nurses, id)
	return nil
}

type DepartmentRepository struct{ s *Store }

func NewDepartmentRepository(s *Store) *DepartmentRepository {
	if s == nil {
		s = NewStore()
	}
	return &DepartmentRepository{s: s}
}

func (r *DepartmentRepository) view(d model.Department) *model.Department {
	d.DoctorCount, d.NurseCount, d.RoomCount = 0, 0, 0
	for _, doc := range r.s.doctors {
		if doc.DepartmentID == d.ID {
			d.DoctorCount++
		}
	}
	for _, n := range r.s.nurses {
		if n.DepartmentID == d.ID {
			d.NurseCount++
		}
	}
	for _, rm := range r.s.rooms {
		if rm.DepartmentID == d.ID {
			d.RoomCount++
		}
	}
	return &d
}

func (r *DepartmentRepository) Create(_ context.Context, d *model.Department) error {
	err := r.s.lock("Department.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	d.ID = r.s.nextID()
	r.s.departments[d.ID] = *d
	return nil
}

func (r *DepartmentRepository) GetByID(_ context.Context, id int) (*model.Department, error) {
	err := r.s.lock("Department.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	d, ok := r.s.departments[id]
	if !ok {
		return nil, notFound("failed to get department")
	}
	return r.view(d), nil
}

func (r *DepartmentRepository) List(_ context.Context) ([]*model.Department, error) {
	err := r.s.lock("Department.List")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []*model.Department{}
	for _, id := range sortedKeys(r.s.departments) {
		out = append(out, r.view(r.s.departments[id]))
	}
	return out, nil
}

func (r *DepartmentRepository) Update(_ context.Context, d *model.Department) error {
	err := r.s.lock("Department.Update")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.departments[d.ID]; !ok {
		return notFound("failed to update department")
	}
	r.s.departments[d.ID] = model.Department{ID: d.ID, Name: d.Name}
	return nil
}

func (r *DepartmentRepository) Delete(_ context.Context, id int) error {
	err := r.s.lock("Department.Delete")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.departments[id]; !ok {
		return notFound("failed to delete department")
	}
	rollback := r.s.begin()
	for docID, doc := range r.s.doctors {
		if doc.DepartmentID != id {
			continue
		}
		for k, a := range r.s.appointments {
			if a.DoctorID == docID {
				delete(r.s.appointments, k)
			}
		}
		if err := r.s.step("Department.Delete.prescriptions"); err != nil {
			rollback()
			return err
		}
		for k, p := range r.s.prescriptions {
			if p.DoctorID == docID {
				delete(r.s.prescriptions, k)
			}
		}
		r.s.detachDoctor(docID)
		delete(r.s.doctors, docID)
	}
	for nurseID, n := range r.s.nurses {
		if n.DepartmentID == id {
			r.s.detachNurse(nurseID)
			delete(r.s.nurses, nurseID)
		}
	}
	for k, rm := range r.s.rooms {
		if rm.DepartmentID == id {
			delete(r.s.rooms, k)
		}
	}
	delete(r.s.departments, id)
	return nil
}

type RoomRepository struct{ s *Store }

func NewRoomRepository(s *Store) *RoomRepository {
	if s == nil {
		s = NewStore()
	}
	return &RoomRepository{s: s}
}

func (r *RoomRepository) view(rm model.Room) *model.Room {
	rm.DepartmentName = r.s.departmentName(rm.DepartmentID)
	return &rm
}

func (r *RoomRepository) Create(_ context.Context, rm *model.Room) error {
	err := r.s.lock("Room.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.departments[rm.DepartmentID]; !ok {
		return referenced("failed to create room")
	}
	rm.ID = r.s.nextID()
	r.s.rooms[rm.ID] = *rm
	return nil
}

func (r *RoomRepository) GetByID(_ context.Context, id int) (*model.Room, error) {
	err := r.s.lock("Room.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	rm, ok := r.s.rooms[id]
	if !ok {
		return nil, notFound("failed to get room")
	}
	return r.view(rm), nil
}

func (r *RoomRepository) List(_ context.Context) ([]*model.Room, error) {
	return r.filter("Room.List", func(model.Room) bool { return true })
}

func (r *RoomRepository) ListByDepartment(_ context.Context, departmentID int) ([]*model.Room, error) {
	return r.filter("Room.ListByDepartment", func(rm model.Room) bool { return rm.DepartmentID == departmentID })
}

func (r *RoomRepository) filter(op string, keep func(model.Room) bool) ([]*model.Room, error) {
	err := r.s.lock(op)
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []*model.Room{}
	for _, id := range sortedKeys(r.s.rooms) {
		if rm := r.s.rooms[id]; keep(rm) {
			out = append(out, r.view(rm))
		}
	}
	return out, nil
}

func (r *RoomRepository) Update(_ context.Context, rm *model.Room) error {
	err := r.s.lock("Room.Update")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.rooms[rm.ID]; !ok {
		return notFound("failed to update room")
	}
	if _, ok := r.s.departments[rm.DepartmentID]; !ok {
		return referenced("failed to update room")
	}
	r.s.rooms[rm.ID] = *rm
	return nil
}

func (r *RoomRepository) Delete(_ context.Context, id int) error {
	err := r.s.lock("Room.Delete")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.rooms[id]; !ok {
		return notFound("failed to delete room")
	}
	delete(r.s.rooms, id)
	return nil
}
