package models

import "time"

// EmissionsResult is the derived CO2 estimate persisted with an entry.
// Immutable once computed. TotalEmissions always equals
// round2(BaseConsumption * EmissionFactor * ConditionMultiplier * OperationHours).
type EmissionsResult struct {
	TotalEmissions      float64 `json:"totalEmissions"`
	EmissionFactor      float64 `json:"emissionFactor"`
	ConditionMultiplier float64 `json:"conditionMultiplier"`
	BaseConsumption     float64 `json:"baseConsumption"`
	OperationHours      float64 `json:"operationHours"`
}

// Entry is one logged equipment-usage record. Identity never changes once
// assigned; the timestamp is refreshed on every update.
type Entry struct {
	ID              int64            `json:"id"`
	Timestamp       time.Time        `json:"timestamp"`
	Data            FormValues       `json:"data"`
	CarbonFootprint *EmissionsResult `json:"carbonFootprint"`
	Identification  Identification   `json:"identification,omitempty"`
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	out := &Entry{
		ID:             e.ID,
		Timestamp:      e.Timestamp,
		Data:           e.Data.Clone(),
		Identification: e.Identification.Clone(),
	}
	if e.CarbonFootprint != nil {
		fp := *e.CarbonFootprint
		out.CarbonFootprint = &fp
	}
	return out
}

// EditingSession is the at-most-one transient edit state. IsDuplicate means
// the entry has no identity yet (ID 0) and committing it creates a new entry
// instead of mutating an existing one.
type EditingSession struct {
	Entry       *Entry `json:"entry"`
	IsDuplicate bool   `json:"isDuplicate"`
}
