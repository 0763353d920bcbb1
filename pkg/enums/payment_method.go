package enums

import "slices"

// PaymentMethod records how a customer intends to pay. It is stored, never charged.
type PaymentMethod string

const (
	PaymentMethodCard           PaymentMethod = "card"
	PaymentMethodPayPal         PaymentMethod = "paypal"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
)

var paymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodPayPal,
	PaymentMethodCashOnDelivery,
	PaymentMethodBankTransfer,
}

func (p PaymentMethod) IsValid() bool { return slices.Contains(paymentMethods, p) }

// PaymentMethodNames lists the accepted wire values.
func PaymentMethodNames() []string { return names(paymentMethods) }

func ParsePaymentMethod(value string) (PaymentMethod, error) {
	return parse("payment method", paymentMethods, value)
}
