package currency

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the display currency of a ticker.
type Currency struct {
	Code   string
	Symbol string
}

// marketSuffixes maps exchange suffixes to the currency they trade in.
var marketSuffixes = map[string]string{
	".NS": money.INR, // National Stock Exchange of India
	".BO": money.INR, // Bombay Stock Exchange
}

// Default is used for tickers without a known market suffix.
var Default = fromCode(money.USD)

// Resolve returns the display currency for a ticker.
func Resolve(ticker string) Currency {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	for suffix, code := range marketSuffixes {
		if strings.HasSuffix(t, suffix) {
			return fromCode(code)
		}
	}
	return Default
}

func fromCode(code string) Currency {
	return Currency{Code: code, Symbol: money.GetCurrency(code).Grapheme}
}

// Format renders amount with the currency symbol, two decimals and
// thousands separators. Non-finite amounts render as "n/a".
func (c Currency) Format(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "n/a"
	}
	cur := money.GetCurrency(c.Code)
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), c.Code).Display()
}
