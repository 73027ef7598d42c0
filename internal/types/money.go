// README: Common money value object used across modules.
package types

// CurrencyRUB is the only currency the storefront sells in.
const CurrencyRUB = "RUB"

type Money struct {
	Amount   int64
	Currency string
}

func RUB(amount int64) Money {
	return Money{Amount: amount, Currency: CurrencyRUB}
}
