package order

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"gorm.io/datatypes"

	pandey "github.com/aagatsharma/pandey-computer"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))

	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return s, nil
	}

	return "", pandey.Invalid("status", fmt.Sprintf("unknown status %q", raw))
}

// CanBecome reports whether an order in s may move to next.
func (s Status) CanBecome(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Final orders can be deleted.
func (s Status) Final() bool {
	return s == StatusCancelled || s == StatusDelivered
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentESewa  PaymentMethod = "esewa"
	PaymentKhalti PaymentMethod = "khalti"
	PaymentBank   PaymentMethod = "bank"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentESewa, PaymentKhalti, PaymentBank:
		return true
	}
	return false
}

// OrderItem is a product as it was priced at checkout.
type OrderItem struct {
	ProductID uint   `json:"productId"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Image     string `json:"image"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"lineTotal"`
}

type Order struct {
	ID            uint   `gorm:"primaryKey"`
	OrderNumber   string `gorm:"uniqueIndex;not null"`
	CustomerName  string `gorm:"not null"`
	Email         string
	Phone         string `gorm:"not null;index"`
	Address       string `gorm:"not null"`
	City          string `gorm:"not null"`
	Notes         string
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null"`
	Status        Status        `gorm:"type:varchar(20);not null;index"`

	Items datatypes.JSONSlice[OrderItem] `gorm:"type:jsonb"`

	Subtotal    int64 `gorm:"not null"`
	ShippingFee int64 `gorm:"not null"`
	Total       int64 `gorm:"not null"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (o *Order) GetID() uint { return o.ID }

func (o *Order) ToDTO() render.Renderer {
	return &OrderDTO{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.CustomerName,
		Email:         o.Email,
		Phone:         o.Phone,
		Address:       o.Address,
		City:          o.City,
		Notes:         o.Notes,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		Items:         append([]OrderItem{}, o.Items...),
		Subtotal:      o.Subtotal,
		ShippingFee:   o.ShippingFee,
		Total:         o.Total,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// ToTrackingDTO leaves out the delivery details.
func (o *Order) ToTrackingDTO() render.Renderer {
	return &TrackingDTO{
		OrderNumber:  o.OrderNumber,
		CustomerName: o.CustomerName,
		Status:       o.Status,
		Items:        append([]OrderItem{}, o.Items...),
		Subtotal:     o.Subtotal,
		ShippingFee:  o.ShippingFee,
		Total:        o.Total,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

type OrderDTO struct {
	ID            uint          `json:"id"`
	OrderNumber   string        `json:"orderNumber"`
	CustomerName  string        `json:"customerName"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	City          string        `json:"city"`
	Notes         string        `json:"notes"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        Status        `json:"status"`
	Items         []OrderItem   `json:"items"`
	Subtotal      int64         `json:"subtotal"`
	ShippingFee   int64         `json:"shippingFee"`
	Total         int64         `json:"total"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

func (dto *OrderDTO) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type TrackingDTO struct {
	OrderNumber  string      `json:"orderNumber"`
	CustomerName string      `json:"customerName"`
	Status       Status      `json:"status"`
	Items        []OrderItem `json:"items"`
	Subtotal     int64       `json:"subtotal"`
	ShippingFee  int64       `json:"shippingFee"`
	Total        int64       `json:"total"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (dto *TrackingDTO) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
