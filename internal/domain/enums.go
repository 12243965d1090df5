package domain

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	// PENDING - order created, awaiting confirmation
	OrderStatusPending OrderStatus = "pending"
	// CONFIRMED - order accepted, awaiting fulfillment
	OrderStatusConfirmed OrderStatus = "confirmed"
	// PROCESSING - order being prepared for shipment
	OrderStatusProcessing OrderStatus = "processing"
	// SHIPPED - order handed to the carrier
	OrderStatusShipped OrderStatus = "shipped"
	// DELIVERED - order received by the customer
	OrderStatusDelivered OrderStatus = "delivered"
	// CANCELLED - order cancelled before shipment
	OrderStatusCancelled OrderStatus = "cancelled"
	// REFUNDED - delivered order refunded
	OrderStatusRefunded OrderStatus = "refunded"
)

// Role represents what a customer account is allowed to do
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusRefunded:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return newStatus == OrderStatusConfirmed ||
			newStatus == OrderStatusCancelled
	case OrderStatusConfirmed:
		return newStatus == OrderStatusProcessing ||
			newStatus == OrderStatusCancelled
	case OrderStatusProcessing:
		return newStatus == OrderStatusShipped ||
			newStatus == OrderStatusCancelled
	case OrderStatusShipped:
		return newStatus == OrderStatusDelivered
	case OrderStatusDelivered:
		return newStatus == OrderStatusRefunded
	case OrderStatusCancelled, OrderStatusRefunded:
		return false // Terminal states
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}
