// Package units holds deterministic measurement helpers. Keep this
// tool-like: no inference logic in here.
package units

import "math"

// Round rounds n to the given number of decimal places.
func Round(n float64, decimals int) float64 {
	f := math.Pow(10, float64(decimals))
	return math.Round(n*f) / f
}

// Basic volume conversions (approximate). Ingredient-specific weight
// conversion would need density tables and lives outside this package.

// TspToMl converts US teaspoons to milliliters.
func TspToMl(tsp float64) float64 {
	return tsp * 4.92892159375
}

// TbspToMl converts US tablespoons to milliliters.
func TbspToMl(tbsp float64) float64 {
	return tbsp * 14.78676478125
}

// CupToMl converts US cups to milliliters.
func CupToMl(cup float64) float64 {
	return cup * 236.5882365
}

// FToC converts degrees Fahrenheit to Celsius.
func FToC(f float64) float64 {
	return (f - 32) * (5.0 / 9.0)
}

// CToF converts degrees Celsius to Fahrenheit.
func CToF(c float64) float64 {
	return c*(9.0/5.0) + 32
}

// ScaleQuantity scales an ingredient quantity by a servings ratio.
func ScaleQuantity(qty float64, fromServings, toServings int) float64 {
	return Round(qty*(float64(toServings)/float64(fromServings)), 3)
}
