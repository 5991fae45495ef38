package enums

// PaymentMethod enumerates how an order is settled.
type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "cod"
	PaymentMethodGateway PaymentMethod = "gateway"
)

func (p PaymentMethod) String() string {
	return string(p)
}

// Valid reports whether the value is one of the supported methods.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentMethodCOD, PaymentMethodGateway:
		return true
	default:
		return false
	}
}
