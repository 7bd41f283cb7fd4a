// Package validation checks form input before any mutation is attempted.
// Every check is pure: it returns the trimmed values for the caller to use,
// or a *ValidationError describing what is missing.
package validation

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// User-facing messages.
const (
	MsgRequiredFields = "Todos los campos son obligatorios"
	MsgInvalidPayment = "Debe capturar el método de pago y un monto válido"
)

// ValidationError reports missing or malformed required input.
type ValidationError struct {
	// Fields names the offending inputs, in form order.
	Fields []string

	// Message is safe to show to the user.
	Message string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NeighborInput holds the fields of the create-neighbor form.
type NeighborInput struct {
	FirstName string
	LastName  string
	Address   string
}

// VehicleInput holds the fields of the add-vehicle form.
type VehicleInput struct {
	LicensePlate  string
	Make          string
	Model         string
	ControlNumber string
}

// PaymentInput holds the raw fields of the add-payment form.
type PaymentInput struct {
	Method         string
	Amount         string
	DepositAccount string
}

// ValidPayment is a PaymentInput that passed validation.
type ValidPayment struct {
	Method string
	Amount float64

	// DepositAccount is empty when not provided.
	DepositAccount string
}

type field struct {
	name  string
	value *string
}

// requireAll trims every field in place and collects the empty ones.
func requireAll(fields ...field) []string {
	var missing []string
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Neighbor requires first name, last name and address.
func Neighbor(in NeighborInput) (NeighborInput, error) {
	missing := requireAll(
		field{"first_name", &in.FirstName},
		field{"last_name", &in.LastName},
		field{"address", &in.Address},
	)
	if len(missing) > 0 {
		return NeighborInput{}, &ValidationError{Fields: missing, Message: MsgRequiredFields}
	}
	return in, nil
}

// Vehicle requires all four vehicle fields.
func Vehicle(in VehicleInput) (VehicleInput, error) {
	missing := requireAll(
		field{"license_plate", &in.LicensePlate},
		field{"make", &in.Make},
		field{"model", &in.Model},
		field{"control_number", &in.ControlNumber},
	)
	if len(missing) > 0 {
		return VehicleInput{}, &ValidationError{Fields: missing, Message: MsgRequiredFields}
	}
	return in, nil
}

// Payment requires a method and a finite amount. Amounts are not
// bounds-checked.
func Payment(in PaymentInput) (ValidPayment, error) {
	method := strings.TrimSpace(in.Method)

	var missing []string
	if method == "" {
		missing = append(missing, "method")
	}

	amount, ok := ParseAmount(in.Amount)
	if !ok {
		missing = append(missing, "amount")
	}

	if len(missing) > 0 {
		return ValidPayment{}, &ValidationError{Fields: missing, Message: MsgInvalidPayment}
	}

	return ValidPayment{
		Method:         method,
		Amount:         amount,
		DepositAccount: strings.TrimSpace(in.DepositAccount),
	}, nil
}

// ParseAmount parses a decimal amount. NaN, infinities and hexadecimal
// notation are rejected.
func ParseAmount(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	digits := strings.TrimLeft(raw, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, false
	}

	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, false
	}
	return amount, true
}
