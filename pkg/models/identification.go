package models

import "time"

// Identification field names the history dedupe key is built from.
const (
	IdentFieldCompany  = "company"
	IdentFieldProject  = "project"
	IdentFieldReporter = "reporter"
)

// Identification is one session-identification record (company, project,
// reporter, reporting period) keyed by identification-schema field name.
type Identification map[string]string

// Clone returns an independent copy of the identification map.
func (id Identification) Clone() Identification {
	if id == nil {
		return nil
	}
	out := make(Identification, len(id))
	for k, v := range id {
		out[k] = v
	}
	return out
}

// Key returns the (company, project, reporter) identity used to de-duplicate
// history records.
func (id Identification) Key() IdentificationKey {
	return IdentificationKey{
		Company:  id[IdentFieldCompany],
		Project:  id[IdentFieldProject],
		Reporter: id[IdentFieldReporter],
	}
}

// IdentificationKey is the history dedupe key.
type IdentificationKey struct {
	Company  string
	Project  string
	Reporter string
}

// IdentificationRecord is one history item, most recently used first.
type IdentificationRecord struct {
	Data     Identification `json:"data"`
	LastUsed time.Time      `json:"lastUsed"`
}

// IdentificationHistoryLimit caps how many past identifications are kept for
// autocomplete.
const IdentificationHistoryLimit = 10
