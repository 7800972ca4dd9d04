package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"elegardens/internal/models"

	"github.com/google/uuid"
)

// MockEmployeeRepository is an in-memory implementation of EmployeeRepository.
type MockEmployeeRepository struct {
	employees map[string]models.Employee
	mu        sync.RWMutex
}

// NewMockEmployeeRepository creates a new instance of MockEmployeeRepository.
func NewMockEmployeeRepository() *MockEmployeeRepository {
	return &MockEmployeeRepository{
		employees: make(map[string]models.Employee),
	}
}

// GetAll returns all employees ordered by creation ascending.
func (r *MockEmployeeRepository) GetAll() ([]models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all, nil
}

// GetByID returns an employee by its ID.
func (r *MockEmployeeRepository) GetByID(id string) (*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	employee, ok := r.employees[id]
	if !ok {
		return nil, fmt.Errorf("employee with ID %s not found", id)
	}
	return &employee, nil
}

// Create adds a new employee.
func (r *MockEmployeeRepository) Create(employee *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if employee.ID == "" {
		employee.ID = uuid.New().String()
	}
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = time.Now()
	}
	employee.UpdatedAt = time.Now()
	r.employees[employee.ID] = *employee
	return nil
}

// Update modifies an existing employee.
func (r *MockEmployeeRepository) Update(employee *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.employees[employee.ID]
	if !ok {
		return fmt.Errorf("employee with ID %s not found for update", employee.ID)
	}
	employee.UpdatedAt = time.Now()
	r.employees[employee.ID] = *employee
	return nil
}

// Delete removes an employee by its ID.
func (r *MockEmployeeRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.employees[id]
	if !ok {
		return fmt.Errorf("employee with ID %s not found for deletion", id)
	}
	delete(r.employees, id)
	return nil
}
