package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "Rp 0", FormatCurrency(0))
	assert.Equal(t, "Rp 950", FormatCurrency(950))
	assert.Equal(t, "Rp 2.500", FormatCurrency(2500))
	assert.Equal(t, "Rp 2.500.000", FormatCurrency(2500000))
	assert.Equal(t, "-Rp 75.000", FormatCurrency(-75000))
}
