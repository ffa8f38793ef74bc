package utils

import (
	"fmt"
	"strconv"
)

// FormatCurrency memformat nominal (satuan mata uang terkecil, integer)
// ke format Rupiah dengan pemisah ribuan. Contoh: 2500000 -> "Rp 2.500.000".
func FormatCurrency(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	if negative {
		return fmt.Sprintf("-Rp %s", out)
	}
	return fmt.Sprintf("Rp %s", out)
}
