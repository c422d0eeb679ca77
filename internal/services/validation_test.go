package services

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_ForCreate(t *testing.T) {
	v := NewValidator()

	p, err := v.ForCreate(ProductInput{Code: " AB123 ", Name: " Desk lamp ", Price: "19.90", Available: true})
	require.NoError(t, err)
	assert.Equal(t, "AB123", p.Code)
	assert.Equal(t, "Desk lamp", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("19.9")))
	assert.True(t, p.Available)

	p, err = v.ForCreate(ProductInput{Code: "FREE0", Name: "Sample", Price: "0"})
	require.NoError(t, err)
	assert.True(t, p.Price.IsZero())
}

func TestValidator_CodeCountsCharacters(t *testing.T) {
	v := NewValidator()

	_, err := v.ForCreate(ProductInput{Code: "ÑANDÚ", Name: "Bird", Price: "1"})
	assert.NoError(t, err)
}

func TestValidator_CollectsEveryViolation(t *testing.T) {
	v := NewValidator()

	_, err := v.ForCreate(ProductInput{Code: "1234", Name: "", Price: "12,5"})
	verr, ok := IsValidation(err)
	require.True(t, ok)

	fields := make(map[string]string)
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, map[string]string{
		"code":  "code must be exactly 5 characters long",
		"name":  "name is required",
		"price": "price must be a valid number",
	}, fields)
	assert.Len(t, verr.Messages(), 3)
	assert.Contains(t, verr.Error(), "validation failed")
}

func TestValidator_PriceRules(t *testing.T) {
	v := NewValidator()

	cases := map[string]string{
		"":     "price is required",
		"abc":  "price must be a valid number",
		"-0.5": "price must not be negative",
	}
	for price, want := range cases {
		_, err := v.ForCreate(ProductInput{Code: "ABCDE", Name: "Name", Price: price})
		verr, ok := IsValidation(err)
		require.True(t, ok, "price %q", price)
		require.Len(t, verr.Fields, 1, "price %q", price)
		assert.Equal(t, want, verr.Fields[0].Message)
	}
}

func TestValidator_ForUpdateIgnoresCode(t *testing.T) {
	v := NewValidator()

	p, err := v.ForUpdate("OLD01", ProductInput{Code: "typed", Name: "Renamed", Price: "5"})
	require.NoError(t, err)
	assert.Equal(t, "OLD01", p.Code)

	// A stored code of unusual length does not block updates.
	_, err = v.ForUpdate("LEGACY", ProductInput{Name: "Renamed", Price: "5"})
	assert.NoError(t, err)
}

func TestValidator_PriceMustFitColumn(t *testing.T) {
	v := NewValidator()

	cases := map[string]string{
		"12.345":                 "price must have at most 2 decimal places",
		"0.12345678901234567891": "price must have at most 2 decimal places",
		"100000000":              "price must be less than 100000000",
		"123456789.5":            "price must be less than 100000000",
	}
	for price, want := range cases {
		_, err := v.ForCreate(ProductInput{Code: "ABCDE", Name: "Name", Price: price})
		verr, ok := IsValidation(err)
		require.True(t, ok, "price %q", price)
		require.Len(t, verr.Fields, 1, "price %q", price)
		assert.Equal(t, want, verr.Fields[0].Message, "price %q", price)
	}

	for _, price := range []string{"99999999.99", "12.50", "12.500", "0.01"} {
		_, err := v.ForCreate(ProductInput{Code: "ABCDE", Name: "Name", Price: price})
		assert.NoError(t, err, "price %q", price)
	}
}

func TestValidator_NameLength(t *testing.T) {
	v := NewValidator()

	_, err := v.ForCreate(ProductInput{Code: "ABCDE", Name: strings.Repeat("n", 100), Price: "1"})
	assert.NoError(t, err)

	_, err = v.ForCreate(ProductInput{Code: "ABCDE", Name: strings.Repeat("n", 101), Price: "1"})
	verr, ok := IsValidation(err)
	require.True(t, ok)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "name must be at most 100 characters long", verr.Fields[0].Message)

	_, err = v.ForUpdate("ABCDE", ProductInput{Name: strings.Repeat("ñ", 101), Price: "1.999"})
	verr, ok = IsValidation(err)
	require.True(t, ok)
	assert.Len(t, verr.Fields, 2)
}

func TestNewValidatorRegistersRules(t *testing.T) {
	assert.NotPanics(t, func() { NewValidator() })
}
