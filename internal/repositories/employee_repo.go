package repositories

import (
	"elegardens/internal/models"
)

// EmployeeRepository defines the interface for employee data access.
type EmployeeRepository interface {
	// GetAll returns all employees ordered by creation ascending.
	GetAll() ([]models.Employee, error)
	GetByID(id string) (*models.Employee, error)
	Create(employee *models.Employee) error
	Update(employee *models.Employee) error
	Delete(id string) error
}
