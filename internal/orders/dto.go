package orders

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
)

// OrderItemDTO is the client view of a frozen order line.
type OrderItemDTO struct {
	ProductID      *uuid.UUID `json:"productId,omitempty"`
	Name           string     `json:"name"`
	SKU            string     `json:"sku"`
	Image          *string    `json:"image,omitempty"`
	Size           string     `json:"size,omitempty"`
	Color          string     `json:"color,omitempty"`
	UnitPriceCents int        `json:"unitPriceCents"`
	Quantity       int        `json:"quantity"`
	LineTotalCents int        `json:"lineTotalCents"`
}

// OrderDTO is the client view of an order.
type OrderDTO struct {
	ID              uuid.UUID             `json:"id"`
	UserID          uuid.UUID             `json:"userId"`
	Status          enums.OrderStatus     `json:"status"`
	Items           []OrderItemDTO        `json:"orderItems"`
	ShippingAddress types.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   enums.PaymentMethod   `json:"paymentMethod"`
	ItemsPrice      int                   `json:"itemsPrice"`
	TaxPrice        int                   `json:"taxPrice"`
	ShippingPrice   int                   `json:"shippingPrice"`
	TotalPrice      int                   `json:"totalPrice"`
	Email           string                `json:"email"`
	Phone           *string               `json:"phone,omitempty"`
	FirstName       string                `json:"firstName"`
	LastName        string                `json:"lastName"`
	IsPaid          bool                  `json:"isPaid"`
	PaidAt          *time.Time            `json:"paidAt,omitempty"`
	IsDelivered     bool                  `json:"isDelivered"`
	DeliveredAt     *time.Time            `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time            `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// OrderList is one page of order history.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"totalPages"`
}

// NewOrderDTO maps a stored order to its client view.
func NewOrderDTO(o *models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID:      it.ProductID,
			Name:           it.Name,
			SKU:            it.SKU,
			Image:          it.Image,
			Size:           it.Size,
			Color:          it.Color,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
			LineTotalCents: it.LineTotalCents,
		})
	}
	return OrderDTO{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          o.Status,
		Items:           items,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		ItemsPrice:      o.ItemsPriceCents,
		TaxPrice:        o.TaxPriceCents,
		ShippingPrice:   o.ShippingPriceCents,
		TotalPrice:      o.TotalPriceCents,
		Email:           o.Email,
		Phone:           o.Phone,
		FirstName:       o.FirstName,
		LastName:        o.LastName,
		IsPaid:          o.IsPaid,
		PaidAt:          o.PaidAt,
		IsDelivered:     o.IsDelivered,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func newOrderList(rows []models.Order, page pagination.Page, total int64) *OrderList {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewOrderDTO(&rows[i]))
	}
	return &OrderList{
		Orders:     out,
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: pagination.TotalPages(total, page.Limit),
	}
}
