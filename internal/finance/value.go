package finance

import (
	"fmt"
	"math"
)

type valueKind int

const (
	valueInvalid valueKind = iota
	valueFixed
	valueComputed
)

// Value is the amount of a payment. It is resolved when the transfer happens so
// computed amounts can depend on live account balances.
type Value struct {
	kind     valueKind
	amount   float64
	computed func() float64
}

func Fixed(amount float64) Value {
	return Value{kind: valueFixed, amount: amount}
}

func Computed(f func() float64) Value {
	if f == nil {
		return Value{}
	}
	return Value{kind: valueComputed, computed: f}
}

func (v Value) Valid() bool {
	return v.kind != valueInvalid
}

func (v Value) IsFixed() bool {
	return v.kind == valueFixed
}

// Resolve evaluates the amount and truncates it to cents.
func (v Value) Resolve() (Cents, error) {
	var amount float64
	switch v.kind {
	case valueFixed:
		amount = v.amount
	case valueComputed:
		amount = v.computed()
	default:
		return 0, ErrInvalidAmount
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: %f", ErrInvalidAmount, amount)
	}
	return CentsOf(amount), nil
}

// Display is the amount as shown in summaries.
func (v Value) Display() string {
	switch v.kind {
	case valueFixed:
		return fmt.Sprintf("%.2f", v.amount)
	case valueComputed:
		return "dynamic"
	default:
		return "invalid"
	}
}
