package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/catalog"
	"github.com/aagatsharma/pandey-computer/internal/cart"
)

func testProducts() map[uint]*catalog.Product {
	return map[uint]*catalog.Product{
		1: {ID: 1, Name: "Ryzen 5 7600", Slug: "ryzen-5-7600", Price: 32000, Stock: 5, IsActive: true, Images: []string{"https://cdn.example.com/r5.png"}},
		2: {ID: 2, Name: "HDMI Cable", Slug: "hdmi-cable", Price: 450, Stock: 40, IsActive: true},
		3: {ID: 3, Name: "Old Keyboard", Slug: "old-keyboard", Price: 900, Stock: 3, IsActive: false},
		4: {ID: 4, Name: "RTX 4090", Slug: "rtx-4090", Price: 350000, Stock: 1, IsActive: true},
	}
}

func TestShippingFor(t *testing.T) {
	assert.Equal(t, int64(0), ShippingFor(0))
	assert.Equal(t, ShippingFee, ShippingFor(1))
	assert.Equal(t, ShippingFee, ShippingFor(FreeShippingThreshold-1))
	assert.Equal(t, int64(0), ShippingFor(FreeShippingThreshold))
}

func TestNewQuote(t *testing.T) {
	c := cart.Cart{1: 2, 2: 1, 3: 1, 4: 2, 9: 1}

	q := NewQuote(testProducts(), c)

	require.Len(t, q.Lines, 5)

	assert.Equal(t, QuoteLine{
		ProductID: 1, Name: "Ryzen 5 7600", Slug: "ryzen-5-7600", Image: "https://cdn.example.com/r5.png",
		Price: 32000, Quantity: 2, LineTotal: 64000, Available: 5,
	}, q.Lines[0])
	assert.Empty(t, q.Lines[1].Problem)
	assert.Equal(t, ProblemInactive, q.Lines[2].Problem)
	assert.Equal(t, ProblemInsufficientStock, q.Lines[3].Problem)
	assert.Equal(t, 1, q.Lines[3].Available)
	assert.Equal(t, ProblemNotFound, q.Lines[4].Problem)
	assert.Zero(t, q.Lines[4].LineTotal)

	assert.Equal(t, 3, q.ItemCount)
	assert.Equal(t, int64(64450), q.Subtotal)
	assert.Equal(t, int64(0), q.ShippingFee)
	assert.Equal(t, int64(64450), q.Total)
}

func TestNewQuoteSmallCartPaysShipping(t *testing.T) {
	q := NewQuote(testProducts(), cart.Cart{2: 2})

	assert.Equal(t, int64(900), q.Subtotal)
	assert.Equal(t, ShippingFee, q.ShippingFee)
	assert.Equal(t, int64(1050), q.Total)
}

func TestNewQuoteEmptyCart(t *testing.T) {
	q := NewQuote(testProducts(), cart.New())

	assert.Empty(t, q.Lines)
	assert.Zero(t, q.Total)
}

func TestPriceItems(t *testing.T) {
	items, subtotal, err := priceItems(testProducts(), cart.Cart{2: 3, 1: 1})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, uint(1), items[0].ProductID)
	assert.Equal(t, "https://cdn.example.com/r5.png", items[0].Image)
	assert.Equal(t, int64(1350), items[1].LineTotal)
	assert.Equal(t, int64(33350), subtotal)

	_, _, err = priceItems(testProducts(), cart.Cart{3: 1})
	assert.ErrorIs(t, err, pandey.ErrRecordNotFound)

	_, _, err = priceItems(testProducts(), cart.Cart{9: 1})
	assert.ErrorIs(t, err, pandey.ErrRecordNotFound)

	_, _, err = priceItems(testProducts(), cart.Cart{4: 2})
	assert.ErrorIs(t, err, pandey.ErrConflict)
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanBecome(StatusConfirmed))
	assert.True(t, StatusPending.CanBecome(StatusCancelled))
	assert.True(t, StatusConfirmed.CanBecome(StatusShipped))
	assert.True(t, StatusShipped.CanBecome(StatusDelivered))

	assert.False(t, StatusPending.CanBecome(StatusPending))
	assert.False(t, StatusPending.CanBecome(StatusDelivered))
	assert.False(t, StatusShipped.CanBecome(StatusCancelled))
	assert.False(t, StatusDelivered.CanBecome(StatusCancelled))
	assert.False(t, StatusCancelled.CanBecome(StatusPending))

	s, err := ParseStatus(" Shipped ")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, s)

	_, err = ParseStatus("lost")
	assert.ErrorIs(t, err, pandey.ErrValidation)
}
