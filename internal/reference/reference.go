// Package reference holds the static clinical lookup tables the safety
// engine depends on: dosing-frequency anchors, the high-alert drug list,
// known drug interaction pairs, and the recommendation catalog. The tables
// are plain values injected at construction so deployments can localize or
// version them without touching engine logic.
package reference

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FrequencyEntry maps a normalized frequency phrase to its anchor hours-of-day.
// Matching is by substring containment against the declared order of the
// Frequencies slice; the first hit wins. The slice order is therefore part of
// the contract and must never be rebuilt from a map.
type FrequencyEntry struct {
	Match string `mapstructure:"match" json:"match"`
	Hours []int  `mapstructure:"hours" json:"hours"`
}

// HighAlertEntry is one high-risk generic name with its risk category and
// the special checks its administration requires.
type HighAlertEntry struct {
	Match          string   `mapstructure:"match" json:"match"`
	Category       string   `mapstructure:"category" json:"category"`
	RequiredChecks []string `mapstructure:"required_checks" json:"required_checks"`
}

// InteractionEntry is one known interacting drug-name pair.
type InteractionEntry struct {
	DrugA  string `mapstructure:"drug_a" json:"drug_a"`
	DrugB  string `mapstructure:"drug_b" json:"drug_b"`
	Effect string `mapstructure:"effect" json:"effect"`
}

// RecommendationEntry maps a fired alert type to a ranked nursing action.
type RecommendationEntry struct {
	AlertType string `mapstructure:"alert_type" json:"alert_type"`
	Priority  int    `mapstructure:"priority" json:"priority"`
	Action    string `mapstructure:"action" json:"action"`
}

// Data is the full reference table set consumed by the engine. It is treated
// as immutable after construction.
type Data struct {
	Frequencies       []FrequencyEntry      `mapstructure:"frequencies"`
	PRNMarkers        []string              `mapstructure:"prn_markers"`
	DefaultAnchorHour int                   `mapstructure:"default_anchor_hour"`
	HighAlertDrugs    []HighAlertEntry      `mapstructure:"high_alert_drugs"`
	Interactions      []InteractionEntry    `mapstructure:"interactions"`
	Recommendations   []RecommendationEntry `mapstructure:"recommendations"`
}

// Alert type keys used by the recommendation catalog. They mirror the alert
// types emitted by the safety verifier.
const (
	AlertAllergyConflict = "ALLERGY_CONFLICT"
	AlertHighAlertMed    = "HIGH_ALERT_MEDICATION"
	AlertDrugInteraction = "DRUG_INTERACTION"
	AlertTimingDeviation = "TIMING_DEVIATION"
)

// Default returns the built-in reference tables.
func Default() Data {
	return Data{
		// Declared order matters: first substring match wins, so compound
		// phrases ("once daily", "every 4 hours") precede their fragments.
		Frequencies: []FrequencyEntry{
			{Match: "bid", Hours: []int{9, 21}},
			{Match: "twice", Hours: []int{9, 21}},
			{Match: "tid", Hours: []int{9, 13, 21}},
			{Match: "three times", Hours: []int{9, 13, 21}},
			{Match: "qid", Hours: []int{6, 12, 17, 22}},
			{Match: "four times", Hours: []int{6, 12, 17, 22}},
			{Match: "every 4 hours", Hours: []int{0, 4, 8, 12, 16, 20}},
			{Match: "q4h", Hours: []int{0, 4, 8, 12, 16, 20}},
			{Match: "every 6 hours", Hours: []int{0, 6, 12, 18}},
			{Match: "q6h", Hours: []int{0, 6, 12, 18}},
			{Match: "every 8 hours", Hours: []int{0, 8, 16}},
			{Match: "q8h", Hours: []int{0, 8, 16}},
			{Match: "every 12 hours", Hours: []int{9, 21}},
			{Match: "q12h", Hours: []int{9, 21}},
			{Match: "once daily", Hours: []int{9}},
			{Match: "every morning", Hours: []int{9}},
			{Match: "qam", Hours: []int{9}},
			{Match: "at bedtime", Hours: []int{21}},
			{Match: "qhs", Hours: []int{21}},
			{Match: "nightly", Hours: []int{21}},
			{Match: "daily", Hours: []int{9}},
			{Match: "qd", Hours: []int{9}},
			{Match: "weekly", Hours: []int{9}},
		},
		PRNMarkers:        []string{"prn", "as needed", "as required"},
		DefaultAnchorHour: 9,
		HighAlertDrugs: []HighAlertEntry{
			{Match: "warfarin", Category: "anticoagulant", RequiredChecks: []string{"verify latest INR", "independent double-check"}},
			{Match: "heparin", Category: "anticoagulant", RequiredChecks: []string{"verify aPTT", "independent double-check"}},
			{Match: "enoxaparin", Category: "anticoagulant", RequiredChecks: []string{"verify renal function", "independent double-check"}},
			{Match: "insulin", Category: "insulin", RequiredChecks: []string{"verify blood glucose", "independent double-check"}},
			{Match: "morphine", Category: "opioid", RequiredChecks: []string{"assess respiratory rate", "assess sedation level"}},
			{Match: "fentanyl", Category: "opioid", RequiredChecks: []string{"assess respiratory rate", "assess sedation level"}},
			{Match: "hydromorphone", Category: "opioid", RequiredChecks: []string{"assess respiratory rate", "assess sedation level"}},
			{Match: "oxycodone", Category: "opioid", RequiredChecks: []string{"assess respiratory rate", "assess sedation level"}},
			{Match: "methadone", Category: "opioid", RequiredChecks: []string{"review QTc", "assess respiratory rate"}},
			{Match: "potassium chloride", Category: "concentrated electrolyte", RequiredChecks: []string{"verify dilution and rate", "independent double-check"}},
			{Match: "hypertonic saline", Category: "concentrated electrolyte", RequiredChecks: []string{"verify serum sodium", "independent double-check"}},
			{Match: "magnesium sulfate", Category: "concentrated electrolyte", RequiredChecks: []string{"verify infusion rate", "assess reflexes"}},
			{Match: "rocuronium", Category: "neuromuscular blocker", RequiredChecks: []string{"confirm airway management", "independent double-check"}},
			{Match: "vecuronium", Category: "neuromuscular blocker", RequiredChecks: []string{"confirm airway management", "independent double-check"}},
			{Match: "succinylcholine", Category: "neuromuscular blocker", RequiredChecks: []string{"confirm airway management", "independent double-check"}},
			{Match: "norepinephrine", Category: "vasoactive infusion", RequiredChecks: []string{"verify central line", "continuous BP monitoring"}},
			{Match: "epinephrine", Category: "vasoactive infusion", RequiredChecks: []string{"verify concentration", "continuous BP monitoring"}},
			{Match: "dopamine", Category: "vasoactive infusion", RequiredChecks: []string{"verify infusion rate", "continuous BP monitoring"}},
			{Match: "vasopressin", Category: "vasoactive infusion", RequiredChecks: []string{"verify infusion rate", "continuous BP monitoring"}},
			{Match: "propofol", Category: "sedative", RequiredChecks: []string{"continuous monitoring", "assess sedation level"}},
			{Match: "midazolam", Category: "sedative", RequiredChecks: []string{"assess respiratory rate", "assess sedation level"}},
			{Match: "dexmedetomidine", Category: "sedative", RequiredChecks: []string{"continuous monitoring", "assess sedation level"}},
			{Match: "methotrexate", Category: "chemotherapy", RequiredChecks: []string{"verify protocol and cycle day", "independent double-check"}},
			{Match: "cisplatin", Category: "chemotherapy", RequiredChecks: []string{"verify protocol and cycle day", "independent double-check"}},
			{Match: "vincristine", Category: "chemotherapy", RequiredChecks: []string{"verify route (never intrathecal)", "independent double-check"}},
			{Match: "cyclophosphamide", Category: "chemotherapy", RequiredChecks: []string{"verify protocol and cycle day", "independent double-check"}},
		},
		Interactions: []InteractionEntry{
			{DrugA: "warfarin", DrugB: "aspirin", Effect: "increased bleeding risk"},
			{DrugA: "warfarin", DrugB: "ibuprofen", Effect: "increased bleeding risk"},
			{DrugA: "warfarin", DrugB: "amiodarone", Effect: "potentiated anticoagulation"},
			{DrugA: "digoxin", DrugB: "amiodarone", Effect: "digoxin toxicity"},
			{DrugA: "digoxin", DrugB: "furosemide", Effect: "hypokalemia-driven digoxin toxicity"},
			{DrugA: "lisinopril", DrugB: "spironolactone", Effect: "hyperkalemia"},
			{DrugA: "lisinopril", DrugB: "potassium chloride", Effect: "hyperkalemia"},
			{DrugA: "methotrexate", DrugB: "ibuprofen", Effect: "reduced methotrexate clearance"},
			{DrugA: "sildenafil", DrugB: "nitroglycerin", Effect: "severe hypotension"},
			{DrugA: "clopidogrel", DrugB: "omeprazole", Effect: "reduced antiplatelet effect"},
			{DrugA: "simvastatin", DrugB: "clarithromycin", Effect: "rhabdomyolysis risk"},
			{DrugA: "tramadol", DrugB: "sertraline", Effect: "serotonin syndrome"},
		},
		Recommendations: []RecommendationEntry{
			{AlertType: AlertAllergyConflict, Priority: 1, Action: "Hold dose and contact prescriber immediately"},
			{AlertType: AlertHighAlertMed, Priority: 2, Action: "Obtain independent double-check before administration"},
			{AlertType: AlertDrugInteraction, Priority: 3, Action: "Monitor patient and consult pharmacist"},
			{AlertType: AlertTimingDeviation, Priority: 4, Action: "Document reason for early/late administration"},
		},
	}
}

// HighAlertMatch is the result of classifying a drug name against the
// high-alert list.
type HighAlertMatch struct {
	IsHighAlert    bool     `json:"is_high_alert"`
	Category       string   `json:"matched_category,omitempty"`
	RequiredChecks []string `json:"required_checks,omitempty"`
}

// ClassifyHighAlert reports whether drugName matches the high-alert list.
// Matching is case-insensitive substring containment against the declared
// order; the first entry that hits is returned without ranking.
func (d Data) ClassifyHighAlert(drugName string) HighAlertMatch {
	name := strings.ToLower(strings.TrimSpace(drugName))
	if name == "" {
		return HighAlertMatch{}
	}
	for _, e := range d.HighAlertDrugs {
		if strings.Contains(name, e.Match) {
			return HighAlertMatch{
				IsHighAlert:    true,
				Category:       e.Category,
				RequiredChecks: e.RequiredChecks,
			}
		}
	}
	return HighAlertMatch{}
}

// RecommendationFor returns the catalog entry for an alert type, if any.
func (d Data) RecommendationFor(alertType string) (RecommendationEntry, bool) {
	for _, r := range d.Recommendations {
		if r.AlertType == alertType {
			return r, true
		}
	}
	return RecommendationEntry{}, false
}

// Load reads a YAML reference file and overlays it on the defaults. Only
// sections present in the file replace the built-in tables; absent sections
// keep their defaults, so a deployment can swap e.g. just the interaction
// list.
func Load(path string) (Data, error) {
	d := Default()
	if path == "" {
		return d, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return Data{}, fmt.Errorf("read reference file %s: %w", path, err)
	}

	var override Data
	if err := v.Unmarshal(&override); err != nil {
		return Data{}, fmt.Errorf("unmarshal reference file %s: %w", path, err)
	}

	if len(override.Frequencies) > 0 {
		d.Frequencies = override.Frequencies
	}
	if len(override.PRNMarkers) > 0 {
		d.PRNMarkers = override.PRNMarkers
	}
	if override.DefaultAnchorHour > 0 {
		d.DefaultAnchorHour = override.DefaultAnchorHour
	}
	if len(override.HighAlertDrugs) > 0 {
		d.HighAlertDrugs = override.HighAlertDrugs
	}
	if len(override.Interactions) > 0 {
		d.Interactions = override.Interactions
	}
	if len(override.Recommendations) > 0 {
		d.Recommendations = override.Recommendations
	}

	return d, nil
}
