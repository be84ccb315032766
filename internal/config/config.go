// Package config holds the static lookup tables the pipeline is constructed
// with: country aliases, per-entity status vocabularies, classification
// domains, and score weights. Tables are loaded once and treated as read-only
// afterwards, so they are safe to share across workers.
package config

import "github.com/joelkehle/ipms-migrate/internal/record"

// ScoreWeights are the fixed weights of the overall quality score. They are
// user-visible, so changing them is a reporting contract change.
type ScoreWeights struct {
	Completeness float64 `koanf:"completeness"`
	Accuracy     float64 `koanf:"accuracy"`
	Consistency  float64 `koanf:"consistency"`
}

// Tables is the full configuration surface the core consumes.
type Tables struct {
	// Countries maps lowercase legacy country spellings to ISO-2 codes.
	Countries map[string]string `koanf:"countries"`

	// Statuses maps entity type -> canonical status -> accepted legacy
	// variants (lowercase).
	Statuses map[string]map[string][]string `koanf:"statuses"`

	// ClientTypes, MarkTypes and Priorities map canonical enum value ->
	// accepted legacy variants (lowercase).
	ClientTypes map[string][]string `koanf:"client_types"`
	MarkTypes   map[string][]string `koanf:"mark_types"`
	Priorities  map[string][]string `koanf:"priorities"`

	// NiceClassMin/Max bound the valid Nice classification domain.
	NiceClassMin int `koanf:"nice_class_min"`
	NiceClassMax int `koanf:"nice_class_max"`

	// MinYear/MaxYear bound plausible dates for IP records.
	MinYear int `koanf:"min_year"`
	MaxYear int `koanf:"max_year"`

	Weights ScoreWeights `koanf:"weights"`
}

// ValidStatuses returns the canonical status set for an entity type.
func (t *Tables) ValidStatuses(entity record.EntityType) map[string]bool {
	out := map[string]bool{}
	for canonical := range t.Statuses[string(entity)] {
		out[canonical] = true
	}
	return out
}

// Default returns the compiled-in tables, matching the legacy system's
// vocabulary. A YAML file or environment overrides can replace any of it
// without a code change.
func Default() *Tables {
	return &Tables{
		Countries: map[string]string{
			"united states": "US", "usa": "US", "us": "US", "united states of america": "US", "america": "US",
			"canada": "CA", "ca": "CA",
			"united kingdom": "GB", "uk": "GB", "gb": "GB", "great britain": "GB", "britain": "GB",
			"germany": "DE", "de": "DE", "deutschland": "DE", "federal republic of germany": "DE",
			"france": "FR", "fr": "FR", "republique francaise": "FR",
			"japan": "JP", "jp": "JP", "nippon": "JP", "nihon": "JP",
			"china": "CN", "cn": "CN", "people's republic of china": "CN", "prc": "CN",
			"india": "IN", "in": "IN", "republic of india": "IN",
			"australia": "AU", "au": "AU", "commonwealth of australia": "AU",
			"brazil": "BR", "br": "BR", "brasil": "BR", "federative republic of brazil": "BR",
			"italy": "IT", "it": "IT", "italia": "IT",
			"spain": "ES", "es": "ES", "espana": "ES",
			"netherlands": "NL", "nl": "NL", "holland": "NL",
			"switzerland": "CH", "ch": "CH", "schweiz": "CH", "suisse": "CH",
			"sweden": "SE", "se": "SE", "sverige": "SE",
			"south korea": "KR", "kr": "KR", "korea": "KR", "republic of korea": "KR",
		},
		Statuses: map[string]map[string][]string{
			string(record.EntityClient): {
				"active":    {"active"},
				"inactive":  {"inactive"},
				"suspended": {"suspended"},
			},
			string(record.EntityPatent): {
				"pending":   {"pending", "filed", "under examination", "prosecution", "in prosecution"},
				"granted":   {"granted", "issued", "patented", "allowed"},
				"abandoned": {"abandoned", "withdrawn", "dismissed"},
				"rejected":  {"rejected", "refused", "denied"},
				"expired":   {"expired", "lapsed", "terminated"},
			},
			string(record.EntityTrademark): {
				"pending":    {"pending", "filed", "under examination", "published", "application"},
				"registered": {"registered", "registration", "issued", "granted"},
				"opposed":    {"opposed", "opposition", "contested"},
				"cancelled":  {"cancelled", "canceled", "revoked"},
				"abandoned":  {"abandoned", "withdrawn", "dismissed"},
				"expired":    {"expired", "lapsed", "terminated"},
			},
			string(record.EntityCopyright): {
				"pending":    {"pending", "filed", "under examination", "application"},
				"registered": {"registered", "registration", "issued", "granted"},
				"rejected":   {"rejected", "refused", "denied"},
				"abandoned":  {"abandoned", "withdrawn", "dismissed"},
			},
			string(record.EntityDeadline): {
				"pending":   {"pending", "open"},
				"completed": {"completed", "done", "closed"},
				"overdue":   {"overdue", "late"},
				"cancelled": {"cancelled", "canceled"},
			},
		},
		ClientTypes: map[string][]string{
			string(record.ClientIndividual): {"individual", "person", "natural person"},
			string(record.ClientCompany):    {"company", "corporation", "corp", "legal entity", "organization"},
		},
		MarkTypes: map[string][]string{
			string(record.MarkWord):     {"word", "wordmark", "standard character"},
			string(record.MarkLogo):     {"logo", "figurative"},
			string(record.MarkCombined): {"combined", "composite"},
			string(record.MarkDesign):   {"design", "stylized"},
		},
		Priorities: map[string][]string{
			string(record.PriorityLow):      {"low", "minor", "routine"},
			string(record.PriorityMedium):   {"medium", "normal", "standard", "moderate"},
			string(record.PriorityHigh):     {"high", "important", "urgent"},
			string(record.PriorityCritical): {"critical", "emergency", "immediate", "asap"},
		},
		NiceClassMin: 1,
		NiceClassMax: 45,
		MinYear:      1900,
		MaxYear:      2050,
		Weights: ScoreWeights{
			Completeness: 0.4,
			Accuracy:     0.4,
			Consistency:  0.2,
		},
	}
}
