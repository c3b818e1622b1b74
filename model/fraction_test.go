package model_test

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/kmy/model"
)

func TestParseFraction(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"2385/100", "23.85"},
		{"0/1", "0"},
		{"-54/1", "-54"},
		{"-30537/25", "-1221.48"},
		{"1/8", "0.125"},
		{"4770/200", "23.85"},
		{"100/1", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := model.ParseFraction(tt.text)
			assert.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseFractionEquivalentFractions(t *testing.T) {
	a := model.MustParseFraction("2385/100")
	b := model.MustParseFraction("477/20")
	assert.True(t, a.Equal(b))
}

func TestParseFractionNonTerminating(t *testing.T) {
	got := model.MustParseFraction("1/3")
	assert.Equal(t, "0.3333333333333333333333333333", got.String())
}

func TestParseFractionMalformed(t *testing.T) {
	for _, text := range []string{"", "12", "1/0", "a/1", "1/b", "1/2/3", "1.5/2"} {
		t.Run(text, func(t *testing.T) {
			_, err := model.ParseFraction(text)
			var malformed *model.MalformedNumberError
			assert.True(t, errors.As(err, &malformed), "expected MalformedNumberError for %q, got %v", text, err)
			assert.Equal(t, text, malformed.Text)
		})
	}
}

func TestFormatFractionRoundTrip(t *testing.T) {
	for _, text := range []string{"2385/100", "0/1", "-54/1", "-30537/25", "1/8", "123456789/1000"} {
		t.Run(text, func(t *testing.T) {
			value := model.MustParseFraction(text)
			canonical := model.FormatFraction(value)

			again := model.MustParseFraction(canonical)
			assert.True(t, value.Equal(again))
			assert.Equal(t, canonical, model.FormatFraction(again))
		})
	}
}

func TestFormatFraction(t *testing.T) {
	assert.Equal(t, "477/20", model.FormatFraction(decimal.RequireFromString("23.85")))
	assert.Equal(t, "0/1", model.FormatFraction(decimal.Zero))
	assert.Equal(t, "-54/1", model.FormatFraction(decimal.NewFromInt(-54)))
	assert.Equal(t, "1200/1", model.FormatFraction(decimal.New(12, 2)))
}
