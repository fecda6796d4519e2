package order

import (
	"fmt"
	"net/http"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/catalog"
	"github.com/aagatsharma/pandey-computer/internal/cart"
)

const (
	ShippingFee           int64 = 150
	FreeShippingThreshold int64 = 10000
)

// Line problems reported by a quote.
const (
	ProblemNotFound          = "not_found"
	ProblemInactive          = "inactive"
	ProblemInsufficientStock = "insufficient_stock"
)

// ShippingFor is the delivery charge for a cart worth subtotal rupees.
func ShippingFor(subtotal int64) int64 {
	if subtotal <= 0 || subtotal >= FreeShippingThreshold {
		return 0
	}

	return ShippingFee
}

type QuoteLine struct {
	ProductID uint   `json:"productId"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Image     string `json:"image"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"lineTotal"`
	Available int    `json:"available"`
	Problem   string `json:"problem,omitempty"`
}

type Quote struct {
	Lines       []QuoteLine `json:"lines"`
	ItemCount   int         `json:"itemCount"`
	Subtotal    int64       `json:"subtotal"`
	ShippingFee int64       `json:"shippingFee"`
	Total       int64       `json:"total"`
}

func (q *Quote) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// NewQuote prices c against the current products. Lines with a problem are
// listed but left out of the totals.
func NewQuote(products map[uint]*catalog.Product, c cart.Cart) *Quote {
	q := &Quote{Lines: make([]QuoteLine, 0, len(c))}

	for _, line := range c.Lines() {
		ql := QuoteLine{ProductID: line.ProductID, Quantity: line.Quantity}

		p, ok := products[line.ProductID]
		switch {
		case !ok:
			ql.Problem = ProblemNotFound
		case !p.IsActive:
			ql.Problem = ProblemInactive
		case p.Stock < line.Quantity:
			ql.Problem = ProblemInsufficientStock
		}

		if ok {
			ql.Name = p.Name
			ql.Slug = p.Slug
			ql.Image = p.Thumbnail()
			ql.Price = p.Price
			ql.Available = max(p.Stock, 0)
		}

		if ql.Problem == "" {
			ql.LineTotal = ql.Price * int64(ql.Quantity)
			q.Subtotal += ql.LineTotal
			q.ItemCount += ql.Quantity
		}

		q.Lines = append(q.Lines, ql)
	}

	q.ShippingFee = ShippingFor(q.Subtotal)
	q.Total = q.Subtotal + q.ShippingFee

	return q
}

// priceItems snapshots every cart line for an order. Any line that cannot be
// sold fails the whole checkout.
func priceItems(products map[uint]*catalog.Product, c cart.Cart) ([]OrderItem, int64, error) {
	items := make([]OrderItem, 0, len(c))
	var subtotal int64

	for _, line := range c.Lines() {
		p, ok := products[line.ProductID]
		if !ok || !p.IsActive {
			return nil, 0, fmt.Errorf("%w: product %d is not available", pandey.ErrRecordNotFound, line.ProductID)
		}

		if p.Stock < line.Quantity {
			return nil, 0, fmt.Errorf("%w: only %d of %q left in stock", pandey.ErrConflict, max(p.Stock, 0), p.Name)
		}

		item := OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Slug:      p.Slug,
			Image:     p.Thumbnail(),
			Price:     p.Price,
			Quantity:  line.Quantity,
			LineTotal: p.Price * int64(line.Quantity),
		}

		subtotal += item.LineTotal
		items = append(items, item)
	}

	return items, subtotal, nil
}
