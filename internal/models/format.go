package models

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatRevenue: "₹1,234,567" (с копейками, если они есть)
func FormatRevenue(amount float64) string {
	if amount == float64(int64(amount)) {
		return moneyPrinter.Sprintf("₹%d", int64(amount))
	}
	return moneyPrinter.Sprintf("₹%.2f", amount)
}
