package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatEuro formats amount the way the meal cards show prices.
// Example: 1234.5 -> "€ 1.234,50"
func FormatEuro(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	cents := int64(math.Round(amount * 100))
	integerPart := fmt.Sprintf("%d", cents/100)
	decimalPart := fmt.Sprintf("%02d", cents%100)

	// thousands separators
	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	return fmt.Sprintf("€ %s%s,%s", sign, strings.Join(groups, "."), decimalPart)
}
