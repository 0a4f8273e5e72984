// Package emissions implements the deterministic CO2 estimation formula over
// the calculation tables of the form schema.
package emissions

import (
	"math"
	"strconv"
	"strings"

	"github.com/carbonfield/emissions-engine/pkg/models"
)

// Form value keys the calculation reads.
const (
	KeyFuelType               = "fuelType"
	KeyFuelConsumption        = "fuelConsumption"
	KeyElectricityConsumption = "electricityConsumption"
	KeyOperatingConditions    = "operatingConditions"
	KeyOperationHours         = "operationHours"
)

// Fuel type keys with special handling.
const (
	FuelElectric = "electric"
	FuelHybrid   = "hybrid"
)

// DefaultCondition is assumed when no operating condition is selected.
const DefaultCondition = "normal"

// Calculate computes the emissions estimate for the given values. It never
// fails: unparseable numbers coerce to 0, an unknown fuel type resolves to a
// zero factor, and an unknown condition key resolves to a neutral 1.0
// multiplier. Hybrid equipment intentionally reuses the electric emission
// factor against the electricity consumption reading.
//
// The returned result records the factor and consumption actually used, so
// TotalEmissions always equals
// round2(BaseConsumption * EmissionFactor * ConditionMultiplier * OperationHours).
func Calculate(calc *models.CalculationSchema, values models.FormValues) models.EmissionsResult {
	var consumption, factor float64

	fuelType := values[KeyFuelType]
	switch {
	case fuelType == FuelElectric || fuelType == FuelHybrid:
		consumption = parseNumber(values[KeyElectricityConsumption])
		factor = calc.EmissionFactors[FuelElectric]
	default:
		if f, ok := calc.EmissionFactors[fuelType]; ok {
			consumption = parseNumber(values[KeyFuelConsumption])
			factor = f
		}
	}

	condition := values[KeyOperatingConditions]
	if condition == "" {
		condition = DefaultCondition
	}
	multiplier, ok := calc.ConditionMultipliers[condition]
	if !ok {
		multiplier = 1.0
	}

	hours := parseNumber(values[KeyOperationHours])

	return models.EmissionsResult{
		TotalEmissions:      round2(consumption * factor * multiplier * hours),
		EmissionFactor:      factor,
		ConditionMultiplier: multiplier,
		BaseConsumption:     consumption,
		OperationHours:      hours,
	}
}

// parseNumber coerces a raw form value to a float, defaulting to 0 on any
// parse failure.
func parseNumber(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
