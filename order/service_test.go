package order

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/catalog"
	"github.com/aagatsharma/pandey-computer/internal/cart"
)

var errCreateFailed = errors.New("create failed")

type memStore struct {
	products   map[uint]*catalog.Product
	orders     map[uint]*Order
	nextID     uint
	failCreate bool
}

func newMemStore() *memStore {
	return &memStore{products: testProducts(), orders: map[uint]*Order{}, nextID: 1}
}

func cloneOrder(o *Order) *Order {
	c := *o
	c.Items = append([]OrderItem{}, o.Items...)
	return &c
}

func (m *memStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	products := make(map[uint]*catalog.Product, len(m.products))
	for id, p := range m.products {
		c := *p
		products[id] = &c
	}

	orders := make(map[uint]*Order, len(m.orders))
	for id, o := range m.orders {
		orders[id] = cloneOrder(o)
	}

	if err := fn(m); err != nil {
		m.products, m.orders = products, orders
		return err
	}

	return nil
}

func (m *memStore) Products(ctx context.Context, ids []uint) (map[uint]*catalog.Product, error) {
	out := map[uint]*catalog.Product{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			c := *p
			out[id] = &c
		}
	}

	return out, nil
}

func (m *memStore) AdjustStock(ctx context.Context, productID uint, delta int) error {
	p, ok := m.products[productID]
	if !ok {
		return pandey.ErrRecordNotFound
	}

	if p.Stock+delta < 0 {
		return pandey.ErrConflict
	}

	p.Stock += delta

	return nil
}

func (m *memStore) FindOrder(ctx context.Context, id uint) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, pandey.ErrRecordNotFound
	}

	return cloneOrder(o), nil
}

func (m *memStore) CreateOrder(ctx context.Context, o *Order) error {
	if m.failCreate {
		return errCreateFailed
	}

	o.ID = m.nextID
	m.nextID++
	m.orders[o.ID] = cloneOrder(o)

	return nil
}

func (m *memStore) SaveOrder(ctx context.Context, o *Order) error {
	if _, ok := m.orders[o.ID]; !ok {
		return pandey.ErrRecordNotFound
	}

	m.orders[o.ID] = cloneOrder(o)

	return nil
}

func (m *memStore) DeleteOrder(ctx context.Context, id uint) error {
	if _, ok := m.orders[id]; !ok {
		return pandey.ErrRecordNotFound
	}

	delete(m.orders, id)

	return nil
}

// orderRepo answers FindOne with a single canned order.
type orderRepo struct {
	pandey.Repository[*Order]
	order *Order
}

func (r *orderRepo) FindOne(ctx context.Context, scopes ...pandey.Scope) (*Order, error) {
	if r.order == nil {
		return nil, pandey.ErrRecordNotFound
	}

	return r.order, nil
}

var checkoutTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestService(store Store, repo pandey.Repository[*Order]) *service {
	logger := pandey.NewLoggerFrom(slog.New(slog.NewTextHandler(io.Discard, nil)))

	return newService(repo, store, logger, func() time.Time { return checkoutTime })
}

func validInput(c cart.Cart) CheckoutInput {
	return CheckoutInput{
		CustomerName: "  Sita Sharma ",
		Email:        "sita@example.com",
		Phone:        "+977 980-1234567",
		Address:      "New Road",
		City:         "Kathmandu",
		Cart:         c,
	}
}

func TestCheckoutInputValidate(t *testing.T) {
	in := validInput(cart.Cart{1: 1})
	require.NoError(t, in.Validate())

	assert.Equal(t, "Sita Sharma", in.CustomerName)
	assert.Equal(t, "+9779801234567", in.Phone)
	assert.Equal(t, PaymentCOD, in.PaymentMethod)

	in = CheckoutInput{Phone: "12", Email: "not-an-email", PaymentMethod: "cheque", Notes: strings.Repeat("x", maxNotesLength+1)}
	err := in.Validate()
	require.ErrorIs(t, err, pandey.ErrValidation)

	var verr *pandey.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"customerName", "phone", "address", "city", "email", "notes", "paymentMethod", "items"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestNewOrderNumber(t *testing.T) {
	n := NewOrderNumber(checkoutTime)

	assert.Regexp(t, regexp.MustCompile(`^PC-20260314-[0-9A-F]{8}$`), n)
	assert.NotEqual(t, n, NewOrderNumber(checkoutTime))
}

func TestCheckoutTakesStock(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)

	o, err := svc.Checkout(context.Background(), validInput(cart.Cart{1: 2, 2: 1}))
	require.NoError(t, err)

	assert.Equal(t, uint(1), o.ID)
	assert.Equal(t, StatusPending, o.Status)
	assert.Regexp(t, `^PC-20260314-`, o.OrderNumber)
	require.Len(t, o.Items, 2)
	assert.Equal(t, int64(64450), o.Subtotal)
	assert.Equal(t, int64(0), o.ShippingFee)
	assert.Equal(t, int64(64450), o.Total)

	assert.Equal(t, 3, store.products[1].Stock)
	assert.Equal(t, 39, store.products[2].Stock)
	assert.Contains(t, store.orders, o.ID)
}

func TestCheckoutAddsShipping(t *testing.T) {
	svc := newTestService(newMemStore(), nil)

	o, err := svc.Checkout(context.Background(), validInput(cart.Cart{2: 1}))
	require.NoError(t, err)

	assert.Equal(t, ShippingFee, o.ShippingFee)
	assert.Equal(t, int64(600), o.Total)
}

func TestCheckoutFailures(t *testing.T) {
	tests := []struct {
		name string
		cart cart.Cart
		want error
	}{
		{"empty cart", cart.New(), pandey.ErrValidation},
		{"unknown product", cart.Cart{9: 1}, pandey.ErrRecordNotFound},
		{"inactive product", cart.Cart{3: 1}, pandey.ErrRecordNotFound},
		{"not enough stock", cart.Cart{2: 1, 4: 2}, pandey.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			svc := newTestService(store, nil)

			_, err := svc.Checkout(context.Background(), validInput(tt.cart))
			assert.ErrorIs(t, err, tt.want)

			assert.Empty(t, store.orders)
			assert.Equal(t, 40, store.products[2].Stock)
			assert.Equal(t, 1, store.products[4].Stock)
		})
	}
}

func TestCheckoutRollsBackStock(t *testing.T) {
	store := newMemStore()
	store.failCreate = true
	svc := newTestService(store, nil)

	_, err := svc.Checkout(context.Background(), validInput(cart.Cart{1: 1}))
	assert.ErrorIs(t, err, errCreateFailed)

	assert.Equal(t, 5, store.products[1].Stock)
	assert.Empty(t, store.orders)
}

func placeOrder(t *testing.T, svc *service, c cart.Cart) *Order {
	t.Helper()

	o, err := svc.Checkout(context.Background(), validInput(c))
	require.NoError(t, err)

	return o
}

func TestUpdateStatusLifecycle(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	o := placeOrder(t, svc, cart.Cart{1: 1})

	for _, next := range []Status{StatusConfirmed, StatusShipped, StatusDelivered} {
		updated, err := svc.UpdateStatus(ctx, o.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	_, err := svc.UpdateStatus(ctx, o.ID, StatusCancelled)
	assert.ErrorIs(t, err, pandey.ErrConflict)
	assert.Equal(t, StatusDelivered, store.orders[o.ID].Status)
	assert.Equal(t, 4, store.products[1].Stock)

	_, err = svc.UpdateStatus(ctx, 99, StatusConfirmed)
	assert.ErrorIs(t, err, pandey.ErrRecordNotFound)
}

func TestUpdateStatusRejectsSameStatus(t *testing.T) {
	svc := newTestService(newMemStore(), nil)
	o := placeOrder(t, svc, cart.Cart{1: 1})

	_, err := svc.UpdateStatus(context.Background(), o.ID, StatusPending)
	assert.ErrorIs(t, err, pandey.ErrConflict)
}

func TestCancelRestoresStock(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)

	o := placeOrder(t, svc, cart.Cart{1: 2, 2: 5})
	require.Equal(t, 3, store.products[1].Stock)

	// A product deleted since checkout is skipped.
	delete(store.products, 2)

	updated, err := svc.UpdateStatus(context.Background(), o.ID, StatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, updated.Status)
	assert.Equal(t, 5, store.products[1].Stock)
}

func TestDeleteOnlyFinalOrders(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	o := placeOrder(t, svc, cart.Cart{2: 1})

	assert.ErrorIs(t, svc.Delete(ctx, o.ID), pandey.ErrConflict)
	assert.Contains(t, store.orders, o.ID)

	_, err := svc.UpdateStatus(ctx, o.ID, StatusCancelled)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, o.ID))
	assert.NotContains(t, store.orders, o.ID)

	assert.ErrorIs(t, svc.Delete(ctx, o.ID), pandey.ErrRecordNotFound)
}

func TestTrack(t *testing.T) {
	repo := &orderRepo{order: &Order{ID: 4, OrderNumber: "PC-20260314-ABCDEF12", Phone: "+9779801234567", Status: StatusShipped}}
	svc := newTestService(newMemStore(), repo)
	ctx := context.Background()

	o, err := svc.Track(ctx, " pc-20260314-abcdef12", "+977 980 123 4567")
	require.NoError(t, err)
	assert.Equal(t, uint(4), o.ID)

	_, err = svc.Track(ctx, "PC-20260314-ABCDEF12", "9800000000")
	assert.ErrorIs(t, err, pandey.ErrRecordNotFound)

	_, err = svc.Track(ctx, "PC-20260314-ABCDEF12", "")
	assert.ErrorIs(t, err, pandey.ErrRecordNotFound)

	repo.order = nil
	_, err = svc.Track(ctx, "PC-20260314-00000000", "+9779801234567")
	assert.ErrorIs(t, err, pandey.ErrRecordNotFound)
}
