// Package catalog supplies welfare scheme records and eligibility matching.
//
// The authoritative catalog lives in DynamoDB; a built-in verified copy backs
// every lookup so a store outage never reaches a caller. Benefit amounts in
// the built-in data are from official sources and must not be edited without
// re-verification.
package catalog

import (
	"context"
	"errors"
)

// BaselineScheme is recommended whenever eligibility matching comes back
// empty: an empty-handed call is treated the same as a dropped one.
const BaselineScheme = "PM_KISAN"

// SchemeRecord is a read-only catalog entry.
type SchemeRecord struct {
	ID        string
	Names     map[string]string // locale → localized scheme name
	Benefit   string            // phone-friendly benefit line
	Documents []string
	ApplyAt   string
}

// Name returns the scheme name for the given locale, falling back to any
// available localization.
func (r SchemeRecord) Name(locale string) string {
	if n, ok := r.Names[locale]; ok && n != "" {
		return n
	}
	if n, ok := r.Names["hi-IN"]; ok && n != "" {
		return n
	}
	for _, n := range r.Names {
		if n != "" {
			return n
		}
	}
	return r.ID
}

// ErrNotFound is returned by stores when a scheme id is unknown.
var ErrNotFound = errors.New("scheme not found")

// Store provides scheme records. Implementations: DynamoDB and the built-in
// static catalog.
type Store interface {
	Scheme(ctx context.Context, id string) (SchemeRecord, error)
	All(ctx context.Context) ([]SchemeRecord, error)
}

// builtin is the verified fallback catalog, mirroring the production table.
var builtin = []SchemeRecord{
	{
		ID: "PM_KISAN",
		Names: map[string]string{
			"hi-IN": "पीएम किसान सम्मान निधि",
			"en-IN": "PM Kisan Samman Nidhi",
		},
		Benefit:   "6,000 rupaye pratisaal, teen kisht mein seedha aapke bank mein",
		Documents: []string{"Aadhaar card", "Zameen ke kagaz (Khatauni)", "Bank passbook"},
		ApplyAt:   "pmkisan.gov.in ya nazdiki CSC kendra",
	},
	{
		ID: "KCC",
		Names: map[string]string{
			"hi-IN": "किसान क्रेडिट कार्ड",
			"en-IN": "Kisan Credit Card",
		},
		Benefit:   "3 lakh rupaye tak ka loan, sirf 4 pratishat byaaj par",
		Documents: []string{"Aadhaar card", "Zameen ke kagaz", "Bank passbook", "Passport size photo"},
		ApplyAt:   "nazdiki bank shaakha",
	},
	{
		ID: "PMFBY",
		Names: map[string]string{
			"hi-IN": "प्रधानमंत्री फसल बीमा योजना",
			"en-IN": "PM Fasal Bima Yojana",
		},
		Benefit:   "Fasal kharab hone par poora muavza, sirf 2 pratishat premium par",
		Documents: []string{"Aadhaar card", "Zameen ke kagaz", "Bank passbook", "Boyi hui fasal ki jaankari"},
		ApplyAt:   "nazdiki bank ya CSC kendra",
	},
	{
		ID: "AYUSHMAN_BHARAT",
		Names: map[string]string{
			"hi-IN": "आयुष्मान भारत",
			"en-IN": "Ayushman Bharat",
		},
		Benefit:   "5 lakh rupaye tak ka muft ilaaj har saal parivar ke liye",
		Documents: []string{"Aadhaar card", "Ration card"},
		ApplyAt:   "nazdiki sarkari aspatal ya CSC kendra",
	},
	{
		ID: "MGNREGS",
		Names: map[string]string{
			"hi-IN": "मनरेगा",
			"en-IN": "MGNREGS",
		},
		Benefit:   "100 din ka guaranteed kaam, 220 se 357 rupaye rozana",
		Documents: []string{"Aadhaar card", "Bank passbook"},
		ApplyAt:   "gram panchayat office",
	},
}

// StaticStore serves the built-in catalog. It is both the development store
// and the fallback target for the facade.
type StaticStore struct{}

// NewStaticStore returns a store over the built-in catalog.
func NewStaticStore() *StaticStore { return &StaticStore{} }

// Scheme returns the built-in record for id.
func (s *StaticStore) Scheme(_ context.Context, id string) (SchemeRecord, error) {
	for _, rec := range builtin {
		if rec.ID == id {
			return rec, nil
		}
	}
	return SchemeRecord{}, ErrNotFound
}

// All returns every built-in record.
func (s *StaticStore) All(_ context.Context) ([]SchemeRecord, error) {
	out := make([]SchemeRecord, len(builtin))
	copy(out, builtin)
	return out, nil
}

// builtinScheme returns the built-in record for id, or the baseline scheme
// when id is unknown. Never fails.
func builtinScheme(id string) SchemeRecord {
	for _, rec := range builtin {
		if rec.ID == id {
			return rec
		}
	}
	for _, rec := range builtin {
		if rec.ID == BaselineScheme {
			return rec
		}
	}
	return builtin[0]
}
