package enums

import "slices"

// OrderStatus tracks the fulfillment lifecycle of an order. Payment is tracked
// separately on the order and does not move the status.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// orderTransitions lists the statuses reachable from each status. Delivered
// and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

func (o OrderStatus) IsValid() bool { return slices.Contains(orderStatuses, o) }

func (o OrderStatus) IsTerminal() bool {
	return o.IsValid() && len(orderTransitions[o]) == 0
}

// CanTransitionTo reports whether next is a legal successor of o.
func (o OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return slices.Contains(orderTransitions[o], next)
}

func OrderStatusNames() []string { return names(orderStatuses) }

func ParseOrderStatus(value string) (OrderStatus, error) {
	return parse("order status", orderStatuses, value)
}
