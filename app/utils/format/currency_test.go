package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0.00", FormatUSD(decimal.Zero))
	assert.Equal(t, "$45.50", FormatUSD(decimal.NewFromFloat(45.5)))
	assert.Equal(t, "$1,249.00", FormatUSD(decimal.NewFromInt(1249)))
}
