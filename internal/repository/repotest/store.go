// Package repotest holds in-memory repositories for service and handler tests.
package repotest

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

// Store is the shared table set behind every fake repository, so joins and
// cascades behave like the real schema.
type Store struct {
	mu sync.Mutex

	seq           int
	users         map[int]model.User
	roles         map[int]model.Role
	patients      map[int]model.Patient
	doctors       map[int]model.Doctor
	nurses        map[int]model.Nurse
	departments   map[int]model.Department
	rooms         map[int]model.Room
	appointments  map[int]model.Appointment
	invoices      map[int]model.Invoice
	payments      map[int]model.Payment
	labResults    map[int]model.LabResult
	records       map[int]model.MedicalRecord
	entries       map[int]model.ClinicalEntry
	prescriptions map[int]model.Prescription

	failures map[string][]error
}

func NewStore() *Store {
	return &Store{
		users:         map[int]model.User{},
		roles:         map[int]model.Role{},
		patients:      map[int]model.Patient{},
		doctors:       map[int]model.Doctor{},
		nurses:        map[int]model.Nurse{},
		departments:   map[int]model.Department{},
		rooms:         map[int]model.Room{},
		appointments:  map[int]model.Appointment{},
		invoices:      map[int]model.Invoice{},
		payments:      map[int]model.Payment{},
		labResults:    map[int]model.LabResult{},
		records:       map[int]model.MedicalRecord{},
		entries:       map[int]model.ClinicalEntry{},
		prescriptions: map[int]model.Prescription{},
		failures:      map[string][]error{},
	}
}

// FailNext queues errors returned by the named operation ("Invoice.Create",
// "Patient.Delete", ...) before it touches any data, one per call. Fan-out
// deletes also accept step names such as "Patient.Delete.invoices", which
// fail after the earlier steps ran and roll them back.
func (s *Store) FailNext(op string, errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], errs...)
}

// Counts reports the number of rows per table, for cascade assertions.
func (s *Store) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{
		"users":         len(s.users),
		"roles":         len(s.roles),
		"patients":      len(s.patients),
		"doctors":       len(s.doctors),
		"nurses":        len(s.nurses),
		"departments":   len(s.departments),
		"rooms":         len(s.rooms),
		"appointments":  len(s.appointments),
		"invoices":      len(s.invoices),
		"payments":      len(s.payments),
		"lab_results":   len(s.labResults),
		"records":       len(s.records),
		"entries":       len(s.entries),
		"prescriptions": len(s.prescriptions),
	}
}

// lock must be paired with s.mu.Unlock; it returns a queued failure for op.
func (s *Store) lock(op string) error {
	s.mu.Lock()
	if queue := s.failures[op]; len(queue) > 0 {
		s.failures[op] = queue[1:]
		return queue[0]
	}
	return nil
}

// step returns a queued failure for a named point inside a multi-step
// operation ("Patient.Delete.invoices", ...). The caller holds s.mu.
func (s *Store) step(op string) error {
	if queue := s.failures[op]; len(queue) > 0 {
		s.failures[op] = queue[1:]
		return queue[0]
	}
	return nil
}

// begin snapshots every table and returns a rollback that restores them.
// The caller holds s.mu.
func (s *Store) begin() (rollback func()) {
	users, roles := cloneTable(s.users), cloneTable(s.roles)
	patients, doctors, nurses := cloneTable(s.patients), cloneTable(s.doctors), cloneTable(s.nurses)
	departments, rooms := cloneTable(s.departments), cloneTable(s.rooms)
	appointments, invoices, payments := cloneTable(s.appointments), cloneTable(s.invoices), cloneTable(s.payments)
	labResults, records, entries := cloneTable(s.labResults), cloneTable(s.records), cloneTable(s.entries)
	prescriptions := cloneTable(s.prescriptions)
	return func() {
		s.users, s.roles = users, roles
		s.patients, s.doctors, s.nurses = patients, doctors, nurses
		s.departments, s.rooms = departments, rooms
		s.appointments, s.invoices, s.payments = appointments, invoices, payments
		s.labResults, s.records, s.entries = labResults, records, entries
		s.prescriptions = prescriptions
	}
}

func cloneTable[V any](m map[int]V) map[int]V {
	out := make(map[int]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) nextID() int {
	s.seq++
	return s.seq
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
}

func duplicate(op string) error {
	return fmt.Errorf("%s: %w", op, repository.ErrDuplicate)
}

func referenced(op string) error {
	return fmt.Errorf("%s: %w", op, repository.ErrReferenced)
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func (s *Store) patientName(id int) string {
	return s.patients[id].Name
}

func (s *Store) doctorName(id *int) *string {
	if id == nil {
		return nil
	}
	d, ok := s.doctors[*id]
	if !ok {
		return nil
	}
	name := d.Name
	return &name
}

func (s *Store) nurseName(id *int) *string {
	if id == nil {
		return nil
	}
	n, ok := s.nurses[*id]
	if !ok {
		return nil
	}
	name := n.Name
	return &name
}

func (s *Store) departmentName(id int) string {
	return s.departments[id].Name
}

func (s *Store) userCount(roleName string) int {
	n := 0
	for _, u := range s.users {
		if strings.EqualFold(string(u.Role), roleName) {
			n++
		}
	}
	return n
}
