package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rl1809/quickmart/internal/core/domain"
	"github.com/rl1809/quickmart/internal/port"
)

// Directory manages the people and fulfilment records around orders.
type Directory struct {
	repo port.DirectoryRepository
}

func NewDirectory(repo port.DirectoryRepository) *Directory {
	return &Directory{repo: repo}
}

func (d *Directory) CreateCustomer(ctx context.Context, c domain.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return wrap(d.repo.CreateCustomer(ctx, c), "create customer %d", c.CustomerID)
}

func (d *Directory) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return d.repo.GetCustomer(ctx, id)
}

func (d *Directory) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return d.repo.ListCustomers(ctx)
}

func (d *Directory) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return wrap(d.repo.UpdateCustomer(ctx, c), "update customer %d", c.CustomerID)
}

func (d *Directory) DeleteCustomer(ctx context.Context, id int64) error {
	return wrap(d.repo.DeleteCustomer(ctx, id), "delete customer %d", id)
}

func (d *Directory) CreateSupplier(ctx context.Context, s domain.Supplier) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return wrap(d.repo.CreateSupplier(ctx, s), "create supplier %d", s.SupplierID)
}

func (d *Directory) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	return d.repo.GetSupplier(ctx, id)
}

func (d *Directory) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return d.repo.ListSuppliers(ctx)
}

func (d *Directory) UpdateSupplier(ctx context.Context, s domain.Supplier) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return wrap(d.repo.UpdateSupplier(ctx, s), "update supplier %d", s.SupplierID)
}

func (d *Directory) DeleteSupplier(ctx context.Context, id int64) error {
	return wrap(d.repo.DeleteSupplier(ctx, id), "delete supplier %d", id)
}

func (d *Directory) CreateEmployee(ctx context.Context, e domain.Employee) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return wrap(d.repo.CreateEmployee(ctx, e), "create employee %d", e.EmployeeID)
}

func (d *Directory) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	return d.repo.GetEmployee(ctx, id)
}

func (d *Directory) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return d.repo.ListEmployees(ctx)
}

func (d *Directory) UpdateEmployee(ctx context.Context, e domain.Employee) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return wrap(d.repo.UpdateEmployee(ctx, e), "update employee %d", e.EmployeeID)
}

func (d *Directory) DeleteEmployee(ctx context.Context, id int64) error {
	return wrap(d.repo.DeleteEmployee(ctx, id), "delete employee %d", id)
}

func (d *Directory) ListEmployeeRoles(ctx context.Context) ([]domain.EmployeeRole, error) {
	return d.repo.ListEmployeeRoles(ctx)
}

// RolesOf reports NotFound when the employee holds no roles.
func (d *Directory) RolesOf(ctx context.Context, employeeID int64) ([]domain.EmployeeRole, error) {
	roles, err := d.repo.RolesOf(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, domain.NotFound("no roles for employee %d", employeeID)
	}
	return roles, nil
}

func (d *Directory) AddEmployeeRole(ctx context.Context, r domain.EmployeeRole) error {
	r.Role = strings.TrimSpace(r.Role)
	if err := r.Validate(); err != nil {
		return err
	}
	return wrap(d.repo.AddEmployeeRole(ctx, r), "add role to employee %d", r.EmployeeID)
}

// UpdateEmployeeRole may move the role to another employee as well as rename it.
func (d *Directory) UpdateEmployeeRole(ctx context.Context, from, to domain.EmployeeRole) error {
	if err := from.Validate(); err != nil {
		return err
	}
	to.Role = strings.TrimSpace(to.Role)
	if err := to.Validate(); err != nil {
		return err
	}
	return wrap(d.repo.UpdateEmployeeRole(ctx, from, to), "update role of employee %d", from.EmployeeID)
}

func (d *Directory) RemoveEmployeeRole(ctx context.Context, r domain.EmployeeRole) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return wrap(d.repo.RemoveEmployeeRole(ctx, r), "remove role from employee %d", r.EmployeeID)
}

func (d *Directory) CreateDelivery(ctx context.Context, dl domain.Delivery) error {
	status, err := domain.ParseDeliveryStatus(string(dl.Status))
	if err != nil {
		return err
	}
	dl.Status = status
	if err := dl.Validate(); err != nil {
		return err
	}
	return wrap(d.repo.CreateDelivery(ctx, dl), "create delivery %d", dl.DeliveryID)
}

func (d *Directory) GetDelivery(ctx context.Context, id int64) (*domain.Delivery, error) {
	return d.repo.GetDelivery(ctx, id)
}

func (d *Directory) ListDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	return d.repo.ListDeliveries(ctx)
}

func (d *Directory) UpdateDeliveryStatus(ctx context.Context, id int64, status, expected string) error {
	st, err := domain.ParseDeliveryStatus(status)
	if err != nil {
		return err
	}
	if err := domain.ValidateClock(expected); err != nil {
		return err
	}
	return wrap(d.repo.UpdateDeliveryStatus(ctx, id, st, expected), "update delivery %d", id)
}

func (d *Directory) DeleteDelivery(ctx context.Context, id int64) error {
	return wrap(d.repo.DeleteDelivery(ctx, id), "delete delivery %d", id)
}

func (d *Directory) CreateFeedback(ctx context.Context, f domain.Feedback) error {
	if err := f.Validate(); err != nil {
		return err
	}
	return wrap(d.repo.CreateFeedback(ctx, f), "create feedback %d", f.FeedbackID)
}

func (d *Directory) GetFeedback(ctx context.Context, id int64) (*domain.Feedback, error) {
	return d.repo.GetFeedback(ctx, id)
}

func (d *Directory) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	return d.repo.ListFeedback(ctx)
}

func (d *Directory) UpdateFeedback(ctx context.Context, id int64, rating int, message string) error {
	if err := domain.ValidateRating(rating); err != nil {
		return err
	}
	return wrap(d.repo.UpdateFeedback(ctx, id, rating, message), "update feedback %d", id)
}

func (d *Directory) DeleteFeedback(ctx context.Context, id int64) error {
	return wrap(d.repo.DeleteFeedback(ctx, id), "delete feedback %d", id)
}

func wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
