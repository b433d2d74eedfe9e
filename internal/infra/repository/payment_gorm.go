package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/smallbiz/booking-core/internal/domain/payment"
	"github.com/smallbiz/booking-core/internal/models"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) err(err error) error {
	return translate(err, domain.ErrNotFound, domain.ErrDuplicate)
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *PaymentGormRepository) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, r.err(err)
	}
	return &p, nil
}

func (r *PaymentGormRepository) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, r.err(err)
	}
	return &s, nil
}

func (r *PaymentGormRepository) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, r.err(err)
	}
	return &c, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *PaymentGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, r.err(err)
	}
	return &ap, nil
}

func (r *PaymentGormRepository) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return r.err(r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error)
}

// --------------------------------------------------
// Order
// --------------------------------------------------

func (r *PaymentGormRepository) CreateOrder(ctx context.Context, o *models.Order) error {
	// items are inserted with the order; customer and payments are not
	return r.err(r.db.WithContext(ctx).Omit("Customer", "Payments").Create(o).Error)
}

func (r *PaymentGormRepository) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&o, id).Error; err != nil {
		return nil, r.err(err)
	}
	return &o, nil
}

func (r *PaymentGormRepository) FindOrderBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("checkout_session_id = ?", sessionID).
		First(&o).Error; err != nil {
		return nil, r.err(err)
	}
	return &o, nil
}

func (r *PaymentGormRepository) UpdateOrderStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Payment
// --------------------------------------------------

func (r *PaymentGormRepository) CreatePayment(ctx context.Context, p *models.Payment) error {
	return r.err(r.db.WithContext(ctx).Create(p).Error)
}

func (r *PaymentGormRepository) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, r.err(err)
	}
	return &p, nil
}

func (r *PaymentGormRepository) FindPaymentByOrderID(ctx context.Context, orderID uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id DESC").
		First(&p).Error; err != nil {
		return nil, r.err(err)
	}
	return &p, nil
}

func (r *PaymentGormRepository) FindPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	return r.findPayment(ctx, "transaction_id = ?", transactionID)
}

func (r *PaymentGormRepository) FindPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	return r.findPayment(ctx, "stripe_payment_intent_id = ?", intentID)
}

func (r *PaymentGormRepository) FindPaymentByChargeID(ctx context.Context, chargeID string) (*models.Payment, error) {
	return r.findPayment(ctx, "stripe_charge_id = ?", chargeID)
}

func (r *PaymentGormRepository) UpdatePayment(ctx context.Context, p *models.Payment) error {
	return r.err(r.db.WithContext(ctx).Save(p).Error)
}

func (r *PaymentGormRepository) WithinTx(ctx context.Context, fn func(tx domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PaymentGormRepository{db: tx})
	})
}

func (r *PaymentGormRepository) findPayment(ctx context.Context, query string, arg string) (*models.Payment, error) {
	if arg == "" {
		return nil, domain.ErrNotFound
	}

	var p models.Payment
	if err := r.db.WithContext(ctx).
		Where(query, arg).
		Order("id ASC").
		First(&p).Error; err != nil {
		return nil, r.err(err)
	}
	return &p, nil
}

// Compile-time check
var _ domain.Repository = (*PaymentGormRepository)(nil)
