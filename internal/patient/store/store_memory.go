package store

import (
	"context"
	"sort"
	"sync"

	"medrec/internal/patient/models"
)

// MemoryStore is an in-memory Store used in tests and for local development
// without a database. IDs are assigned from a process-local sequence.
type MemoryStore struct {
	mu       sync.RWMutex
	patients map[int64]*models.Patient
	nextID   int64
	nextDiag int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{patients: make(map[int64]*models.Patient)}
}

func (s *MemoryStore) FindByID(_ context.Context, id int64) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	patient, ok := s.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(patient), nil
}

func (s *MemoryStore) FindAll(_ context.Context) ([]*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Patient, 0, len(s.patients))
	for _, patient := range s.patients {
		out = append(out, clone(patient))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) FindPage(ctx context.Context, page Page) ([]*models.Patient, int64, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	sort.SliceStable(all, func(i, j int) bool {
		less := false
		switch page.SortBy {
		case "name":
			less = all[i].Name < all[j].Name
		case "email":
			less = all[i].Email < all[j].Email
		default:
			less = all[i].ID < all[j].ID
		}
		if page.SortDir == "desc" {
			return !less
		}
		return less
	})

	total := int64(len(all))
	start := page.Number * page.Size
	// start goes negative when page.Number is large enough to overflow.
	if start < 0 || start >= len(all) {
		return []*models.Patient{}, total, nil
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *MemoryStore) Save(_ context.Context, patient *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patient.ID == 0 {
		s.nextID++
		patient.ID = s.nextID
	}
	for i := range patient.Diagnoses {
		if patient.Diagnoses[i].ID == 0 {
			s.nextDiag++
			patient.Diagnoses[i].ID = s.nextDiag
		}
	}
	sort.SliceStable(patient.Diagnoses, func(i, j int) bool {
		return patient.Diagnoses[i].Date.After(patient.Diagnoses[j].Date)
	})

	s.patients[patient.ID] = clone(patient)
	return nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[id]; !ok {
		return ErrNotFound
	}
	delete(s.patients, id)
	return nil
}

func clone(patient *models.Patient) *models.Patient {
	copied := *patient
	copied.Diagnoses = append([]models.Diagnosis(nil), patient.Diagnoses...)
	return &copied
}
