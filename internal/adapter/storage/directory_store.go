package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rl1809/quickmart/internal/core/domain"
)

type customerRow struct {
	CustomerID int64  `gorm:"column:customer_id;primaryKey;autoIncrement:false"`
	Name       string `gorm:"size:100;not null"`
	Phone      string `gorm:"size:15;not null"`
}

func (customerRow) TableName() string { return "customers" }

type supplierRow struct {
	SupplierID int64  `gorm:"column:supplier_id;primaryKey;autoIncrement:false"`
	Name       string `gorm:"size:100;not null"`
	ContactNo  string `gorm:"column:contact_no;size:15"`
	Address    string `gorm:"size:255"`
}

func (supplierRow) TableName() string { return "suppliers" }

type employeeRow struct {
	EmployeeID int64           `gorm:"column:employee_id;primaryKey;autoIncrement:false"`
	Name       string          `gorm:"size:100;not null"`
	Salary     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Contact    string          `gorm:"size:15;not null"`
}

func (employeeRow) TableName() string { return "employees" }

type employeeRoleRow struct {
	EmployeeID int64  `gorm:"column:employee_id;primaryKey;autoIncrement:false"`
	Role       string `gorm:"column:role;primaryKey;size:100"`
}

func (employeeRoleRow) TableName() string { return "employee_roles" }

type deliveryRow struct {
	DeliveryID int64 `gorm:"column:delivery_id;primaryKey;autoIncrement:false"`
	OrderNo    int64 `gorm:"column:order_no;not null;index"`
	EmployeeID int64 `gorm:"column:employee_id;not null;index"`
}

func (deliveryRow) TableName() string { return "delivery_main" }

// deliveryStatusRow is keyed by order: an order has at most one delivery status.
type deliveryStatusRow struct {
	OrderNo      int64  `gorm:"column:order_no;primaryKey;autoIncrement:false"`
	Status       string `gorm:"size:20;not null"`
	ExpectedTime string `gorm:"column:expected_time;size:5;not null"`
}

func (deliveryStatusRow) TableName() string { return "delivery_status" }

type feedbackRow struct {
	FeedbackID int64  `gorm:"column:feedback_id;primaryKey;autoIncrement:false"`
	OrderNo    int64  `gorm:"column:order_no;not null;index"`
	Rating     int    `gorm:"not null"`
	Message    string `gorm:"size:500"`
}

func (feedbackRow) TableName() string { return "feedback_main" }

type feedbackCustomerRow struct {
	OrderNo    int64 `gorm:"column:order_no;primaryKey;autoIncrement:false"`
	CustomerID int64 `gorm:"column:customer_id;not null"`
}

func (feedbackCustomerRow) TableName() string { return "feedback_customer" }

var directoryModels = []any{
	&customerRow{},
	&supplierRow{},
	&employeeRow{},
	&employeeRoleRow{},
	&deliveryRow{},
	&deliveryStatusRow{},
	&feedbackRow{},
	&feedbackCustomerRow{},
}

// GormDirectory stores customers, suppliers, employees and their roles,
// deliveries and feedback through gorm on the same pool as the ledger.
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *DB) *GormDirectory {
	return &GormDirectory{db: db.Gorm}
}

func rowsOrNotFound(res *gorm.DB, notFound error) error {
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}

func firstOrNotFound(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return classify(err)
}

func referenced(tx *gorm.DB, table, column string, id int64) (bool, error) {
	var n int64
	if err := tx.Table(table).Where(column+" = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Customers

func (g *GormDirectory) CreateCustomer(ctx context.Context, c domain.Customer) error {
	err := g.db.WithContext(ctx).Create(&customerRow{CustomerID: c.CustomerID, Name: c.Name, Phone: c.Phone}).Error
	if isDuplicate(err) {
		return domain.Conflict("customer %d already exists", c.CustomerID)
	}
	return classify(err)
}

func (g *GormDirectory) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var row customerRow
	if err := g.db.WithContext(ctx).First(&row, "customer_id = ?", id).Error; err != nil {
		return nil, firstOrNotFound(err, domain.NotFound("customer %d", id))
	}
	return &domain.Customer{CustomerID: row.CustomerID, Name: row.Name, Phone: row.Phone}, nil
}

func (g *GormDirectory) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var rows []customerRow
	if err := g.db.WithContext(ctx).Order("customer_id").Find(&rows).Error; err != nil {
		return nil, classify(err)
	}
	out := make([]domain.Customer, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Customer{CustomerID: r.CustomerID, Name: r.Name, Phone: r.Phone})
	}
	return out, nil
}

func (g *GormDirectory) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	res := g.db.WithContext(ctx).Model(&customerRow{}).
		Where("customer_id = ?", c.CustomerID).
		Updates(map[string]any{"name": c.Name, "phone": c.Phone})
	return rowsOrNotFound(res, domain.NotFound("customer %d", c.CustomerID))
}

func (g *GormDirectory) DeleteCustomer(ctx context.Context, id int64) error {
	return classify(g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		used, err := referenced(tx, "orders", "customer_id", id)
		if err != nil {
			return err
		}
		if used {
			return domain.Conflict("customer %d still has orders", id)
		}
		return rowsOrNotFound(tx.Delete(&customerRow{}, "customer_id = ?", id), domain.NotFound("customer %d", id))
	}))
}

// Suppliers

func toSupplier(r supplierRow) domain.Supplier {
	return domain.Supplier{SupplierID: r.SupplierID, Name: r.Name, ContactNo: r.ContactNo, Address: r.Address}
}

func (g *GormDirectory) CreateSupplier(ctx context.Context, s domain.Supplier) error {
	err := g.db.WithContext(ctx).Create(&supplierRow{
		SupplierID: s.SupplierID,
		Name:       s.Name,
		ContactNo:  s.ContactNo,
		Address:    s.Address,
	}).Error
	if isDuplicate(err) {
		return domain.Conflict("supplier %d already exists", s.SupplierID)
	}
	return classify(err)
}

func (g *GormDirectory) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	var row supplierRow
	if err := g.db.WithContext(ctx).First(&row, "supplier_id = ?", id).Error; err != nil {
		return nil, firstOrNotFound(err, domain.NotFound("supplier %d", id))
	}
	s := toSupplier(row)
	return &s, nil
}

func (g *GormDirectory) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	var rows []supplierRow
	if err := g.db.WithContext(ctx).Order("supplier_id").Find(&rows).Error; err != nil {
		return nil, classify(err)
	}
	out := make([]domain.Supplier, 0, len(rows))
	for _, r := range rows {
		out = append(out, toSupplier(r))
	}
	return out, nil
}

func (g *GormDirectory) UpdateSupplier(ctx context.Context, s domain.Supplier) error {
	res := g.db.WithContext(ctx).Model(&supplierRow{}).
		Where("supplier_id = ?", s.SupplierID).
		Updates(map[string]any{"name": s.Name, "contact_no": s.ContactNo, "address": s.Address})
	return rowsOrNotFound(res, domain.NotFound("supplier %d", s.SupplierID))
}

func (g *GormDirectory) DeleteSupplier(ctx context.Context, id int64) error {
	return classify(g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		used, err := referenced(tx, "supplied_items", "supplier_id", id)
		if err != nil {
			return err
		}
		if used {
			return domain.Conflict("supplier %d still has supply records", id)
		}
		return rowsOrNotFound(tx.Delete(&supplierRow{}, "supplier_id = ?", id), domain.NotFound("supplier %d", id))
	}))
}

// Employees

func toEmployee(r employeeRow) domain.Employee {
	return domain.Employee{EmployeeID: r.EmployeeID, Name: r.Name, Salary: r.Salary, Contact: r.Contact}
}

func (g *GormDirectory) CreateEmployee(ctx context.Context, e domain.Employee) error {
	err := g.db.WithContext(ctx).Create(&employeeRow{
		EmployeeID: e.EmployeeID,
		Name:       e.Name,
		Salary:     e.Salary,
		Contact:    e.Contact,
	}).Error
	if isDuplicate(err) {
		return domain.Conflict("employee %d already exists", e.EmployeeID)
	}
	return classify(err)
}

func (g *GormDirectory) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	var row employeeRow
	if err := g.db.WithContext(ctx).First(&row, "employee_id = ?", id).Error; err != nil {
		return nil, firstOrNotFound(err, domain.NotFound("employee %d", id))
	}
	e := toEmployee(row)
	return &e, nil
}

func (g *GormDirectory) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	var rows []employeeRow
	if err := g.db.WithContext(ctx).Order("employee_id").Find(&rows).Error; err != nil {
		return nil, classify(err)
	}
	out := make([]domain.Employee, 0, len(rows))
	for _, r := range rows {
		out = append(out, toEmployee(r))
	}
	return out, nil
}

func (g *GormDirectory) UpdateEmployee(ctx context.Context, e domain.Employee) error {
	res := g.db.WithContext(ctx).Model(&employeeRow{}).
		Where("employee_id = ?", e.EmployeeID).
		Updates(map[string]any{"name": e.Name, "salary": e.Salary, "contact": e.Contact})
	return rowsOrNotFound(res, domain.NotFound("employee %d", e.EmployeeID))
}

func (g *GormDirectory) DeleteEmployee(ctx context.Context, id int64) error {
	return classify(g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		used, err := referenced(tx, "delivery_main", "employee_id", id)
		if err != nil {
			return err
		}
		if used {
			return domain.Conflict("employee %d still has deliveries", id)
		}
		if err := tx.Delete(&employeeRoleRow{}, "employee_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete employee roles: %w", err)
		}
		return rowsOrNotFound(tx.Delete(&employeeRow{}, "employee_id = ?", id), domain.NotFound("employee %d", id))
	}))
}

// Employee roles

func requireEmployee(tx *gorm.DB, id int64) error {
	ok, err := referenced(tx, "employees", "employee_id", id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("employee %d", id)
	}
	return nil
}

func toEmployeeRoles(rows []employeeRoleRow) []domain.EmployeeRole {
	out := make([]domain.EmployeeRole, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.EmployeeRole{EmployeeID: r.EmployeeID, Role: r.Role})
	}
	return out
}

func (g *GormDirectory) ListEmployeeRoles(ctx context.Context) ([]domain.EmployeeRole, error) {
	var rows []employeeRoleRow
	if err := g.db.WithContext(ctx).Order("employee_id, role").Find(&rows).Error; err != nil {
		return nil, classify(err)
	}
	return toEmployeeRoles(rows), nil
}

func (g *GormDirectory) RolesOf(ctx context.Context, employeeID int64) ([]domain.EmployeeRole, error) {
	var rows []employeeRoleRow
	if err := g.db.WithContext(ctx).Where("employee_id = ?", employeeID).Order("role").Find(&rows).Error; err != nil {
		return nil, classify(err)
	}
	return toEmployeeRoles(rows), nil
}

func (g *GormDirectory) AddEmployeeRole(ctx context.Context, r domain.EmployeeRole) error {
	return classify(g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireEmployee(tx, r.EmployeeID); err != nil {
			return err
		}
		err := tx.Create(&employeeRoleRow{EmployeeID: r.EmployeeID, Role: r.Role}).Error
		if isDuplicate(err) {
			return domain.Conflict("employee %d already has role %q", r.EmployeeID, r.Role)
		}
		return err
	}))
}

func (g *GormDirectory) UpdateEmployeeRole(ctx context.Context, from, to domain.EmployeeRole) error {
	return classify(g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireEmployee(tx, to.EmployeeID); err != nil {
			return err
		}
		res := tx.Model(&employeeRoleRow{}).
			Where("employee_id = ? AND role = ?", from.EmployeeID, from.Role).
			Updates(map[string]any{"employee_id": to.EmployeeID, "role": to.Role})
		if isDuplicate(res.Error) {
			return domain.Conflict("employee %d already has role %q", to.EmployeeID, to.Role)
		}
		return rowsOrNotFound(res, domain.NotFound("employee %d has no role %q", from.EmployeeID, from.Role))
	}))
}

func (g *GormDirectory) RemoveEmployeeRole(ctx context.Context, r domain.EmployeeRole) error {
	res := g.db.WithContext(ctx).Delete(&employeeRoleRow{}, "employee_id = ? AND role = ?", r.EmployeeID, r.Role)
	return rowsOrNotFound(res, domain.NotFound("employee %d has no role %q", r.EmployeeID, r.Role))
}

// Deliveries

type deliveryView struct {
	DeliveryID   int64
	OrderNo      int64
	EmployeeID   int64
	Status       string
	ExpectedTime string
}

func (v deliveryView) toDomain() domain.Delivery {
	return domain.Delivery{
		DeliveryID:   v.DeliveryID,
		OrderNo:      v.OrderNo,
		EmployeeID:   v.EmployeeID,
		Status:       domain.DeliveryStatus(v.Status),
		ExpectedTime: v.ExpectedTime,
	}
}

const deliverySelect = `
	SELECT dm.delivery_id, dm.order_no, dm.employee_id, ds.status, ds.expected_time
	FROM delivery_main dm
	JOIN delivery_status ds ON ds.order_no = dm.order_no`

func (g *GormDirectory) CreateDelivery(ctx context.Context, d domain.Delivery) error {
	return classify(g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ok, err := referenced(tx, "orders", "order_no", d.OrderNo); err != nil {
			return err
		} else if !ok {
			return domain.NotFound("order %d", d.OrderNo)
		}
		if ok, err := referenced(tx, "employees", "employee_id", d.EmployeeID); err != nil {
			return err
		} else if !ok {
			return domain.NotFound("employee %d", d.EmployeeID)
		}

		err := tx.Create(&deliveryRow{DeliveryID: d.DeliveryID, OrderNo: d.OrderNo, EmployeeID: d.EmployeeID}).Error
		if isDuplicate(err) {
			return domain.Conflict("delivery %d already exists", d.DeliveryID)
		}
		if err != nil {
			return fmt.Errorf("insert delivery: %w", err)
		}

		err = tx.Create(&deliveryStatusRow{OrderNo: d.OrderNo, Status: string(d.Status), ExpectedTime: d.ExpectedTime}).Error
		if isDuplicate(err) {
			return domain.Conflict("order %d already has a delivery", d.OrderNo)
		}
		if err != nil {
			return fmt.Errorf("insert delivery status: %w", err)
		}
		return nil
	}))
}

func (g *GormDirectory) GetDelivery(ctx context.Context, id int64) (*domain.Delivery, error) {
	var views []deliveryView
	if err := g.db.WithContext(ctx).Raw(deliverySelect+` WHERE dm.delivery_id = ?`, id).Scan(&views).Error; err != nil {
		return nil, classify(err)
	}
	if len(views) == 0 {
		return nil, domain.NotFound("delivery %d", id)
	}
	d := views[0].toDomain()
	return &d, nil
}

func (g *GormDirectory) ListDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	var views []deliveryView
	if err := g.db.WithContext(ctx).Raw(deliverySelect + ` ORDER BY dm.delivery_id`).Scan(&views).Error; err != nil {
		return nil, classify(err)
	}
	out := make([]domain.Delivery, 0, len(views))
	for _, v := range views {
		out = append(out, v.toDomain())
	}
	return out, nil
}

func (g *GormDirectory) UpdateDeliveryStatus(ctx context.Context, id int64, status domain.DeliveryStatus, expected string) error {
	return classify(g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row deliveryRow
		if err := tx.First(&row, "delivery_id = ?", id).Error; err != nil {
			return firstOrNotFound(err, domain.NotFound("delivery %d", id))
		}
		res := tx.Model(&deliveryStatusRow{}).
			Where("order_no = ?", row.OrderNo).
			Updates(map[string]any{"status": string(status), "expected_time": expected})
		return rowsOrNotFound(res, domain.NotFound("delivery status for order %d", row.OrderNo))
	}))
}

func (g *GormDirectory) DeleteDelivery(ctx context.Context, id int64) error {
	return classify(g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row deliveryRow
		if err := tx.First(&row, "delivery_id = ?", id).Error; err != nil {
			return firstOrNotFound(err, domain.NotFound("delivery %d", id))
		}
		if err := tx.Delete(&deliveryStatusRow{}, "order_no = ?", row.OrderNo).Error; err != nil {
			return fmt.Errorf("delete delivery status: %w", err)
		}
		return tx.Delete(&deliveryRow{}, "delivery_id = ?", id).Error
	}))
}

// Feedback

type feedbackView struct {
	FeedbackID   int64
	OrderNo      int64
	CustomerID   int64
	CustomerName string
	Rating       int
	Message      string
}

func (v feedbackView) toDomain() domain.Feedback {
	return domain.Feedback{
		FeedbackID:   v.FeedbackID,
		OrderNo:      v.OrderNo,
		CustomerID:   v.CustomerID,
		CustomerName: v.CustomerName,
		Rating:       v.Rating,
		Message:      v.Message,
	}
}

const feedbackSelect = `
	SELECT fm.feedback_id, fm.order_no, fc.customer_id, COALESCE(c.name, '') AS customer_name,
	       fm.rating, fm.message
	FROM feedback_main fm
	JOIN feedback_customer fc ON fc.order_no = fm.order_no
	LEFT JOIN customers c ON c.customer_id = fc.customer_id`

func (g *GormDirectory) CreateFeedback(ctx context.Context, f domain.Feedback) error {
	return classify(g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owners []int64
		if err := tx.Table("orders").Where("order_no = ?", f.OrderNo).Pluck("customer_id", &owners).Error; err != nil {
			return fmt.Errorf("query order owner: %w", err)
		}
		if len(owners) == 0 || owners[0] != f.CustomerID {
			return domain.Invalid("order %d does not belong to customer %d", f.OrderNo, f.CustomerID)
		}

		err := tx.Create(&feedbackRow{FeedbackID: f.FeedbackID, OrderNo: f.OrderNo, Rating: f.Rating, Message: f.Message}).Error
		if isDuplicate(err) {
			return domain.Conflict("feedback %d already exists", f.FeedbackID)
		}
		if err != nil {
			return fmt.Errorf("insert feedback: %w", err)
		}

		// several feedback entries can share one order; the owner row is written once
		var link feedbackCustomerRow
		err = tx.First(&link, "order_no = ?", f.OrderNo).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&feedbackCustomerRow{OrderNo: f.OrderNo, CustomerID: f.CustomerID}).Error
		}
		return err
	}))
}

func (g *GormDirectory) GetFeedback(ctx context.Context, id int64) (*domain.Feedback, error) {
	var views []feedbackView
	if err := g.db.WithContext(ctx).Raw(feedbackSelect+` WHERE fm.feedback_id = ?`, id).Scan(&views).Error; err != nil {
		return nil, classify(err)
	}
	if len(views) == 0 {
		return nil, domain.NotFound("feedback %d", id)
	}
	f := views[0].toDomain()
	return &f, nil
}

func (g *GormDirectory) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	var views []feedbackView
	if err := g.db.WithContext(ctx).Raw(feedbackSelect + ` ORDER BY fm.feedback_id`).Scan(&views).Error; err != nil {
		return nil, classify(err)
	}
	out := make([]domain.Feedback, 0, len(views))
	for _, v := range views {
		out = append(out, v.toDomain())
	}
	return out, nil
}

func (g *GormDirectory) UpdateFeedback(ctx context.Context, id int64, rating int, message string) error {
	res := g.db.WithContext(ctx).Model(&feedbackRow{}).
		Where("feedback_id = ?", id).
		Updates(map[string]any{"rating": rating, "message": message})
	return rowsOrNotFound(res, domain.NotFound("feedback %d", id))
}

func (g *GormDirectory) DeleteFeedback(ctx context.Context, id int64) error {
	return classify(g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row feedbackRow
		if err := tx.First(&row, "feedback_id = ?", id).Error; err != nil {
			return firstOrNotFound(err, domain.NotFound("feedback %d", id))
		}
		if err := tx.Delete(&feedbackRow{}, "feedback_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete feedback: %w", err)
		}

		remaining, err := referenced(tx, "feedback_main", "order_no", row.OrderNo)
		if err != nil {
			return err
		}
		if remaining {
			return nil
		}
		return tx.Delete(&feedbackCustomerRow{}, "order_no = ?", row.OrderNo).Error
	}))
}
