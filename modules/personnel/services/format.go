package services

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatStatNumber renders a stat card value: plain below 1,000, then a
// compact K or M suffix with one decimal unless whole.
func FormatStatNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return compact(float64(n)/1_000_000, "M")
	case n >= 1_000:
		return compact(float64(n)/1_000, "K")
	}
	return printer.Sprintf("%d", n)
}

// FormatExact renders the full count with thousands separators.
func FormatExact(n int) string {
	return printer.Sprintf("%d", n)
}

func compact(v float64, suffix string) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10) + suffix
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + suffix
}
