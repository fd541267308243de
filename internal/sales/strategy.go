package sales

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrUnsupportedMethod = errors.New("método de pago no soportado")

// Strategy settles a payment for the given amount. Strategies are pure and
// synchronous; a real payment gateway integration would replace the table
// entry for its method.
type Strategy func(amount decimal.Decimal, data PaymentData) Settlement

var strategies = map[PaymentMethod]Strategy{
	MethodCard:     processCard,
	MethodCash:     processCash,
	MethodTransfer: processTransfer,
}

func ForMethod(m PaymentMethod) (Strategy, error) {
	s, ok := strategies[m]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, m)
	}
	return s, nil
}

func processCard(amount decimal.Decimal, data PaymentData) Settlement {
	return Settlement{
		Estado:     SettlementApproved,
		Metodo:     "tarjeta_credito",
		Monto:      amount,
		Referencia: "TXN_" + uuid.NewString(),
		Mensaje:    "Pago con tarjeta procesado exitosamente",
	}
}

func processCash(amount decimal.Decimal, data PaymentData) Settlement {
	// Tendered amount defaults to the exact total, so change is zero.
	tendered := decimalField(data, "monto_entregado", amount)
	change := tendered.Sub(amount)
	return Settlement{
		Estado:  SettlementApproved,
		Metodo:  string(MethodCash),
		Monto:   amount,
		Cambio:  &change,
		Mensaje: "Pago en efectivo registrado",
	}
}

func processTransfer(amount decimal.Decimal, data PaymentData) Settlement {
	ref, _ := data["referencia"].(string)
	if ref == "" {
		ref = "TRF_" + uuid.NewString()
	}
	return Settlement{
		Estado:     SettlementPending,
		Metodo:     string(MethodTransfer),
		Monto:      amount,
		Referencia: ref,
		Mensaje:    "Transferencia en proceso de verificación",
	}
}

func decimalField(data PaymentData, key string, def decimal.Decimal) decimal.Decimal {
	switch v := data[key].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return def
}
