package order

// PaymentStatus tracks the payment-proof review lifecycle of an order
type PaymentStatus string

const (
	PaymentStatusPending        PaymentStatus = "pending_payment"
	PaymentStatusProofSubmitted PaymentStatus = "proof_submitted"
	PaymentStatusPaid           PaymentStatus = "paid"
	PaymentStatusRejected       PaymentStatus = "rejected"
	PaymentStatusCancelled      PaymentStatus = "cancelled"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProofSubmitted, PaymentStatusPaid,
		PaymentStatusRejected, PaymentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return target == PaymentStatusProofSubmitted || target == PaymentStatusCancelled
	case PaymentStatusProofSubmitted:
		return target == PaymentStatusPaid || target == PaymentStatusRejected
	case PaymentStatusRejected:
		// a rejected proof may be replaced with a new one
		return target == PaymentStatusProofSubmitted || target == PaymentStatusCancelled
	case PaymentStatusPaid, PaymentStatusCancelled:
		return false // terminal states
	}
	return false
}

// ShippingStatus tracks the fulfilment lifecycle of an order
type ShippingStatus string

const (
	ShippingStatusPending    ShippingStatus = "pending"
	ShippingStatusProcessing ShippingStatus = "processing"
	ShippingStatusShipped    ShippingStatus = "shipped"
	ShippingStatusDelivered  ShippingStatus = "delivered"
	ShippingStatusCancelled  ShippingStatus = "cancelled"
)

// IsValid checks if the status is a valid ShippingStatus
func (s ShippingStatus) IsValid() bool {
	switch s {
	case ShippingStatusPending, ShippingStatusProcessing, ShippingStatusShipped,
		ShippingStatusDelivered, ShippingStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ShippingStatus
func (s ShippingStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ShippingStatus) CanTransitionTo(target ShippingStatus) bool {
	switch s {
	case ShippingStatusPending:
		return target == ShippingStatusProcessing || target == ShippingStatusCancelled
	case ShippingStatusProcessing:
		return target == ShippingStatusShipped || target == ShippingStatusCancelled
	case ShippingStatusShipped:
		return target == ShippingStatusDelivered
	case ShippingStatusDelivered, ShippingStatusCancelled:
		return false // terminal states
	}
	return false
}
