package port

import (
	"context"

	"github.com/rl1809/quickmart/internal/core/domain"
)

type DirectoryRepository interface {
	CreateCustomer(ctx context.Context, c domain.Customer) error
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, c domain.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error

	CreateSupplier(ctx context.Context, s domain.Supplier) error
	GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, s domain.Supplier) error
	DeleteSupplier(ctx context.Context, id int64) error

	CreateEmployee(ctx context.Context, e domain.Employee) error
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	UpdateEmployee(ctx context.Context, e domain.Employee) error
	DeleteEmployee(ctx context.Context, id int64) error

	ListEmployeeRoles(ctx context.Context) ([]domain.EmployeeRole, error)
	RolesOf(ctx context.Context, employeeID int64) ([]domain.EmployeeRole, error)
	AddEmployeeRole(ctx context.Context, r domain.EmployeeRole) error
	// UpdateEmployeeRole rewrites the whole (employee, role) key in one transaction
	UpdateEmployeeRole(ctx context.Context, from, to domain.EmployeeRole) error
	RemoveEmployeeRole(ctx context.Context, r domain.EmployeeRole) error

	// CreateDelivery writes the main and status records in one transaction
	CreateDelivery(ctx context.Context, d domain.Delivery) error
	GetDelivery(ctx context.Context, id int64) (*domain.Delivery, error)
	ListDeliveries(ctx context.Context) ([]domain.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, id int64, status domain.DeliveryStatus, expected string) error
	DeleteDelivery(ctx context.Context, id int64) error

	// CreateFeedback checks the order belongs to the customer before writing
	CreateFeedback(ctx context.Context, f domain.Feedback) error
	GetFeedback(ctx context.Context, id int64) (*domain.Feedback, error)
	ListFeedback(ctx context.Context) ([]domain.Feedback, error)
	UpdateFeedback(ctx context.Context, id int64, rating int, message string) error
	DeleteFeedback(ctx context.Context, id int64) error
}
