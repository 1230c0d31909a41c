package enum

import "strings"

// PaymentMethod is the tender type of a payment record
type PaymentMethod int

const (
	PaymentMethodOther       PaymentMethod = 0
	PaymentMethodCash        PaymentMethod = 1
	PaymentMethodCard        PaymentMethod = 2
	PaymentMethodCertificate PaymentMethod = 3
	PaymentMethodCredit      PaymentMethod = 4
	PaymentMethodCourtesy    PaymentMethod = 5
)

// ParsePaymentMethod maps the POS tender label onto a PaymentMethod.
// Unknown labels map to PaymentMethodOther.
func ParsePaymentMethod(s string) PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "efectivo":
		return PaymentMethodCash
	case "tarjeta":
		return PaymentMethodCard
	case "certificado":
		return PaymentMethodCertificate
	case "credito", "crédito":
		return PaymentMethodCredit
	case "cortesia", "cortesía":
		return PaymentMethodCourtesy
	}
	return PaymentMethodOther
}
