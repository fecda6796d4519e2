package order

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/fx"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/internal/cart"
)

const maxNotesLength = 500

// CheckoutInput is what the storefront submits to place an order.
type CheckoutInput struct {
	CustomerName  string
	Email         string
	Phone         string
	Address       string
	City          string
	Notes         string
	PaymentMethod PaymentMethod
	Cart          cart.Cart
}

// Validate trims the input in place and checks the customer fields.
func (in *CheckoutInput) Validate() error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = normalizePhone(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Notes = strings.TrimSpace(in.Notes)

	if in.PaymentMethod == "" {
		in.PaymentMethod = PaymentCOD
	}

	verr := pandey.NewValidationError()

	if in.CustomerName == "" {
		verr.Add("customerName", "is required")
	}

	if digits := strings.TrimPrefix(in.Phone, "+"); len(digits) < 7 || len(digits) > 15 {
		verr.Add("phone", "must be 7 to 15 digits")
	}

	if in.Address == "" {
		verr.Add("address", "is required")
	}

	if in.City == "" {
		verr.Add("city", "is required")
	}

	if in.Email != "" {
		if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
			verr.Add("email", "is not a valid email address")
		}
	}

	if len(in.Notes) > maxNotesLength {
		verr.Add("notes", fmt.Sprintf("must be at most %d characters", maxNotesLength))
	}

	if !in.PaymentMethod.Valid() {
		verr.Add("paymentMethod", "must be one of cod, esewa, khalti, bank")
	}

	if len(in.Cart) == 0 {
		verr.Add("items", "cart is empty")
	}

	return verr.Err()
}

// normalizePhone keeps digits and a leading plus.
func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)

	var b strings.Builder
	for i, r := range raw {
		if unicode.IsDigit(r) || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// NewOrderNumber formats PC-<yyyymmdd>-<8 hex>.
func NewOrderNumber(now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")

	return fmt.Sprintf("PC-%s-%s", now.Format("20060102"), strings.ToUpper(id[:8]))
}

type Service interface {
	Quote(ctx context.Context, c cart.Cart) (*Quote, error)
	Checkout(ctx context.Context, in CheckoutInput) (*Order, error)
	List(ctx context.Context, query pandey.ListQuery) (pandey.Page[*Order], error)
	Get(ctx context.Context, id uint) (*Order, error)
	UpdateStatus(ctx context.Context, id uint, next Status) (*Order, error)
	Delete(ctx context.Context, id uint) error
	Track(ctx context.Context, orderNumber, phone string) (*Order, error)
}

type ServiceParams struct {
	fx.In

	DB     pandey.DBService
	Logger pandey.LoggerService
	Store  Store
}

type service struct {
	repo   pandey.Repository[*Order]
	store  Store
	logger pandey.LoggerService
	now    func() time.Time
}

func NewService(params ServiceParams) Service {
	repo := pandey.NewRepository[*Order](params.DB, params.Logger,
		pandey.WithTableName[*Order]("orders"),
		pandey.WithDefaultOrder[*Order]("orders.created_at DESC, orders.id DESC"),
	)

	return newService(repo, params.Store, params.Logger, time.Now)
}

func newService(repo pandey.Repository[*Order], store Store, logger pandey.LoggerService, now func() time.Time) *service {
	return &service{repo: repo, store: store, logger: logger, now: now}
}

func (s *service) Quote(ctx context.Context, c cart.Cart) (*Quote, error) {
	products, err := s.store.Products(ctx, c.IDs())
	if err != nil {
		return nil, err
	}

	return NewQuote(products, c), nil
}

// Checkout prices the cart from the database, takes the stock and records the
// order in one transaction.
func (s *service) Checkout(ctx context.Context, in CheckoutInput) (*Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now()

	o := &Order{
		OrderNumber:   NewOrderNumber(now),
		CustomerName:  in.CustomerName,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		City:          in.City,
		Notes:         in.Notes,
		PaymentMethod: in.PaymentMethod,
		Status:        StatusPending,
	}

	err := s.store.Transaction(ctx, func(tx Store) error {
		products, err := tx.Products(ctx, in.Cart.IDs())
		if err != nil {
			return err
		}

		items, subtotal, err := priceItems(products, in.Cart)
		if err != nil {
			return err
		}

		for _, item := range items {
			if err := tx.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}

		o.Items = items
		o.Subtotal = subtotal
		o.ShippingFee = ShippingFor(subtotal)
		o.Total = subtotal + o.ShippingFee

		return tx.CreateOrder(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Placed order",
		"order", o.OrderNumber,
		"items", len(o.Items),
		"total", o.Total,
		"payment", o.PaymentMethod,
	)

	return o, nil
}

func (s *service) List(ctx context.Context, query pandey.ListQuery) (pandey.Page[*Order], error) {
	page, err := s.repo.FindPage(ctx, query)
	if err != nil {
		return page, fmt.Errorf("failed to list orders: %w", err)
	}

	return page, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Order, error) {
	o, err := s.repo.FindOneByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return o, nil
}

// UpdateStatus moves an order along its lifecycle. Cancelling puts the
// reserved stock back.
func (s *service) UpdateStatus(ctx context.Context, id uint, next Status) (*Order, error) {
	var updated *Order

	err := s.store.Transaction(ctx, func(tx Store) error {
		o, err := tx.FindOrder(ctx, id)
		if err != nil {
			return err
		}

		if !o.Status.CanBecome(next) {
			return fmt.Errorf("%w: a %s order cannot become %s", pandey.ErrConflict, o.Status, next)
		}

		if next == StatusCancelled {
			for _, item := range o.Items {
				err := tx.AdjustStock(ctx, item.ProductID, item.Quantity)
				if errors.Is(err, pandey.ErrRecordNotFound) {
					s.logger.Warn("Product of cancelled order no longer exists", "order", o.OrderNumber, "product", item.ProductID)
					continue
				}
				if err != nil {
					return err
				}
			}
		}

		o.Status = next
		updated = o

		return tx.SaveOrder(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated order status", "order", updated.OrderNumber, "status", next)

	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx Store) error {
		o, err := tx.FindOrder(ctx, id)
		if err != nil {
			return err
		}

		if !o.Status.Final() {
			return fmt.Errorf("%w: only cancelled or delivered orders can be deleted", pandey.ErrConflict)
		}

		return tx.DeleteOrder(ctx, id)
	})
}

// Track finds an order for a customer who knows its number and phone.
func (s *service) Track(ctx context.Context, orderNumber, phone string) (*Order, error) {
	orderNumber = strings.ToUpper(strings.TrimSpace(orderNumber))
	phone = normalizePhone(phone)

	if orderNumber == "" || phone == "" {
		return nil, pandey.ErrRecordNotFound
	}

	o, err := s.repo.FindOne(ctx, pandey.Where("orders.order_number = ?", orderNumber))
	if err != nil {
		return nil, err
	}

	if o.Phone != phone {
		return nil, fmt.Errorf("%w: order %s", pandey.ErrRecordNotFound, orderNumber)
	}

	return o, nil
}
