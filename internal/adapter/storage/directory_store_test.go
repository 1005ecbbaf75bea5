package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rl1809/quickmart/internal/core/domain"
)

func TestDirectory_CustomerCRUD(t *testing.T) {
	db := getSQLiteDB(t)
	dir := NewGormDirectory(db)
	ctx := context.Background()

	c := domain.Customer{CustomerID: 7, Name: "Dana", Phone: "0123456789"}
	if err := dir.CreateCustomer(ctx, c); err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}
	if err := dir.CreateCustomer(ctx, c); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	c.Name = "Dana K"
	if err := dir.UpdateCustomer(ctx, c); err != nil {
		t.Fatalf("UpdateCustomer failed: %v", err)
	}
	got, err := dir.GetCustomer(ctx, 7)
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if got.Name != "Dana K" {
		t.Errorf("expected updated name, got %q", got.Name)
	}

	if err := dir.DeleteCustomer(ctx, 7); err != nil {
		t.Fatalf("DeleteCustomer failed: %v", err)
	}
	if _, err := dir.GetCustomer(ctx, 7); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := dir.UpdateCustomer(ctx, c); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on update, got %v", err)
	}
}

func TestDirectory_DeleteReferencedCustomer(t *testing.T) {
	db := getSQLiteDB(t)
	fixture(t, db, "1.00", 0)

	err := NewGormDirectory(db).DeleteCustomer(context.Background(), 1)
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestDirectory_EmployeeSalary(t *testing.T) {
	db := getSQLiteDB(t)
	dir := NewGormDirectory(db)
	ctx := context.Background()

	e := domain.Employee{EmployeeID: 3, Name: "Eve", Salary: decimal.RequireFromString("1500.50"), Contact: "0987654321"}
	if err := dir.CreateEmployee(ctx, e); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	got, err := dir.GetEmployee(ctx, 3)
	if err != nil {
		t.Fatalf("GetEmployee failed: %v", err)
	}
	if !got.Salary.Equal(e.Salary) {
		t.Errorf("expected salary %s, got %s", e.Salary, got.Salary)
	}

	list, err := dir.ListEmployees(ctx)
	if err != nil || len(list) != 1 {
		t.Errorf("expected 1 employee, got %d (%v)", len(list), err)
	}
}

func TestDirectory_Delivery(t *testing.T) {
	db := getSQLiteDB(t)
	fixture(t, db, "1.00", 0)
	dir := NewGormDirectory(db)
	ctx := context.Background()

	if err := dir.CreateEmployee(ctx, domain.Employee{EmployeeID: 1, Name: "Driver", Contact: "0987654321"}); err != nil {
		t.Fatalf("create employee: %v", err)
	}

	d := domain.Delivery{DeliveryID: 10, OrderNo: 1, EmployeeID: 1, Status: domain.DeliveryPending, ExpectedTime: "14:30"}
	if err := dir.CreateDelivery(ctx, d); err != nil {
		t.Fatalf("CreateDelivery failed: %v", err)
	}

	// second delivery for the same order
	dup := domain.Delivery{DeliveryID: 11, OrderNo: 1, EmployeeID: 1, Status: domain.DeliveryPending, ExpectedTime: "15:00"}
	if err := dir.CreateDelivery(ctx, dup); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	if _, err := dir.GetDelivery(ctx, 11); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected rolled back delivery, got %v", err)
	}

	missing := domain.Delivery{DeliveryID: 12, OrderNo: 99, EmployeeID: 1, Status: domain.DeliveryPending, ExpectedTime: "15:00"}
	if err := dir.CreateDelivery(ctx, missing); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := dir.UpdateDeliveryStatus(ctx, 10, domain.DeliveryDelivered, "16:00"); err != nil {
		t.Fatalf("UpdateDeliveryStatus failed: %v", err)
	}
	got, err := dir.GetDelivery(ctx, 10)
	if err != nil {
		t.Fatalf("GetDelivery failed: %v", err)
	}
	if got.Status != domain.DeliveryDelivered || got.ExpectedTime != "16:00" {
		t.Errorf("unexpected delivery: %+v", got)
	}

	if err := dir.DeleteEmployee(ctx, 1); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict deleting assigned employee, got %v", err)
	}

	if err := dir.DeleteDelivery(ctx, 10); err != nil {
		t.Fatalf("DeleteDelivery failed: %v", err)
	}
	list, _ := dir.ListDeliveries(ctx)
	if len(list) != 0 {
		t.Errorf("expected no deliveries, got %d", len(list))
	}
	n, _ := count(ctx, db.SQL, `SELECT COUNT(*) FROM delivery_status`)
	if n != 0 {
		t.Errorf("expected status row removed, got %d", n)
	}
}

func TestDirectory_Feedback(t *testing.T) {
	db := getSQLiteDB(t)
	fixture(t, db, "1.00", 0)
	dir := NewGormDirectory(db)
	ctx := context.Background()

	if err := dir.CreateCustomer(ctx, domain.Customer{CustomerID: 2, Name: "Other", Phone: "0111111111"}); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	wrongOwner := domain.Feedback{FeedbackID: 1, OrderNo: 1, CustomerID: 2, Rating: 4}
	if err := dir.CreateFeedback(ctx, wrongOwner); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	first := domain.Feedback{FeedbackID: 1, OrderNo: 1, CustomerID: 1, Rating: 4, Message: "good"}
	second := domain.Feedback{FeedbackID: 2, OrderNo: 1, CustomerID: 1, Rating: 2, Message: "late"}
	for _, f := range []domain.Feedback{first, second} {
		if err := dir.CreateFeedback(ctx, f); err != nil {
			t.Fatalf("CreateFeedback %d failed: %v", f.FeedbackID, err)
		}
	}

	got, err := dir.GetFeedback(ctx, 1)
	if err != nil {
		t.Fatalf("GetFeedback failed: %v", err)
	}
	if got.CustomerName != "Test Customer" || got.Rating != 4 {
		t.Errorf("unexpected feedback: %+v", got)
	}

	if err := dir.UpdateFeedback(ctx, 2, 5, "fine after all"); err != nil {
		t.Fatalf("UpdateFeedback failed: %v", err)
	}

	if err := dir.DeleteFeedback(ctx, 1); err != nil {
		t.Fatalf("DeleteFeedback failed: %v", err)
	}
	links, _ := count(ctx, db.SQL, `SELECT COUNT(*) FROM feedback_customer`)
	if links != 1 {
		t.Errorf("expected owner row kept while feedback remains, got %d", links)
	}

	if err := dir.DeleteFeedback(ctx, 2); err != nil {
		t.Fatalf("DeleteFeedback failed: %v", err)
	}
	links, _ = count(ctx, db.SQL, `SELECT COUNT(*) FROM feedback_customer`)
	if links != 0 {
		t.Errorf("expected owner row removed, got %d", links)
	}
}

func TestDirectory_CreateSupplier(t *testing.T) {
	db := getSQLiteDB(t)
	dir := NewGormDirectory(db)
	ctx := context.Background()

	s := domain.Supplier{SupplierID: 4, Name: "Acme", ContactNo: "0123456789", Address: "2 Side St"}
	if err := dir.CreateSupplier(ctx, s); err != nil {
		t.Fatalf("CreateSupplier failed: %v", err)
	}
	got, err := dir.GetSupplier(ctx, 4)
	if err != nil {
		t.Fatalf("GetSupplier failed: %v", err)
	}
	if *got != s {
		t.Errorf("expected %+v, got %+v", s, *got)
	}
	if err := dir.CreateSupplier(ctx, s); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestDirectory_EmployeeRoles(t *testing.T) {
	db := getSQLiteDB(t)
	dir := NewGormDirectory(db)
	ctx := context.Background()

	for _, e := range []domain.Employee{
		{EmployeeID: 1, Name: "Chi", Salary: decimal.RequireFromString("1200.00"), Contact: "0123456789"},
		{EmployeeID: 2, Name: "Bo", Salary: decimal.RequireFromString("1100.00"), Contact: "0987654321"},
	} {
		if err := dir.CreateEmployee(ctx, e); err != nil {
			t.Fatalf("CreateEmployee failed: %v", err)
		}
	}

	cashier := domain.EmployeeRole{EmployeeID: 1, Role: "cashier"}
	driver := domain.EmployeeRole{EmployeeID: 1, Role: "driver"}
	for _, r := range []domain.EmployeeRole{cashier, driver} {
		if err := dir.AddEmployeeRole(ctx, r); err != nil {
			t.Fatalf("AddEmployeeRole(%+v) failed: %v", r, err)
		}
	}
	if err := dir.AddEmployeeRole(ctx, cashier); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	if err := dir.AddEmployeeRole(ctx, domain.EmployeeRole{EmployeeID: 9, Role: "cashier"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown employee, got %v", err)
	}

	roles, err := dir.RolesOf(ctx, 1)
	if err != nil {
		t.Fatalf("RolesOf failed: %v", err)
	}
	if len(roles) != 2 || roles[0] != cashier || roles[1] != driver {
		t.Errorf("unexpected roles: %+v", roles)
	}

	// key rewrite may move the role to another employee
	moved := domain.EmployeeRole{EmployeeID: 2, Role: "stocker"}
	if err := dir.UpdateEmployeeRole(ctx, driver, moved); err != nil {
		t.Fatalf("UpdateEmployeeRole failed: %v", err)
	}
	all, err := dir.ListEmployeeRoles(ctx)
	if err != nil {
		t.Fatalf("ListEmployeeRoles failed: %v", err)
	}
	if len(all) != 2 || all[0] != cashier || all[1] != moved {
		t.Errorf("unexpected roles after update: %+v", all)
	}

	if err := dir.UpdateEmployeeRole(ctx, moved, cashier); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	if err := dir.UpdateEmployeeRole(ctx, driver, cashier); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing pair, got %v", err)
	}
	if err := dir.UpdateEmployeeRole(ctx, moved, domain.EmployeeRole{EmployeeID: 9, Role: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown employee, got %v", err)
	}

	if err := dir.RemoveEmployeeRole(ctx, moved); err != nil {
		t.Fatalf("RemoveEmployeeRole failed: %v", err)
	}
	if err := dir.RemoveEmployeeRole(ctx, moved); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if roles, _ := dir.RolesOf(ctx, 2); len(roles) != 0 {
		t.Errorf("expected no roles for employee 2, got %+v", roles)
	}

	if err := dir.DeleteEmployee(ctx, 1); err != nil {
		t.Fatalf("DeleteEmployee failed: %v", err)
	}
	if all, _ := dir.ListEmployeeRoles(ctx); len(all) != 0 {
		t.Errorf("expected roles removed with employee, got %+v", all)
	}
}
