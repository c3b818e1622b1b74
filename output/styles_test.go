package output

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestNewStyles(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)
	assert.NotZero(t, styles.output)
}

func TestStylesPlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	assert.Equal(t, "done", styles.Success("done"))
	assert.Equal(t, "Assets:Bank", styles.Account("Assets:Bank"))
	assert.Equal(t, "2020-03-15", styles.Date("2020-03-15"))
	assert.Equal(t, "12ms", styles.Timing("12ms", true))
}

func TestStylesAmount(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	assert.Equal(t, "-50.00", styles.Amount(decimal.RequireFromString("-50")))
	assert.Equal(t, "0.33", styles.Amount(decimal.RequireFromString("0.333")))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab  ", PadRight("ab", 4))
	assert.Equal(t, "  ab", PadLeft("ab", 4))
	assert.Equal(t, "abcdef", PadRight("abcdef", 4))
	assert.Equal(t, "日本 ", PadRight("日本", 5))
	assert.Equal(t, 4, Width("日本"))
}
