package rules

import "github.com/healthintel/healthintel/pkg/normalize"

// ConditionConflicts maps an existing condition to the medications that may
// worsen it and the reason shown to the user.
var ConditionConflicts = map[string]map[string]string{
	"hypertension": {
		"ibuprofen":       "NSAIDs can raise blood pressure.",
		"naproxen":        "NSAIDs can raise blood pressure.",
		"pseudoephedrine": "Decongestants may spike blood pressure.",
		"prednisone":      "Corticosteroids can cause fluid retention and elevate BP.",
	},
	"diabetes": {
		"prednisone": "Corticosteroids can elevate blood sugar.",
		"thiazide":   "Thiazide diuretics may impair glucose control.",
		"atenolol":   "Beta-blockers can mask hypoglycemia symptoms.",
	},
	"asthma": {
		"propranolol": "Non-selective beta-blockers may trigger bronchospasm.",
		"atenolol":    "Beta-blockers may worsen asthma.",
		"aspirin":     "Aspirin can trigger asthma attacks in sensitive patients.",
	},
	"kidney disease": {
		"ibuprofen": "NSAIDs can worsen renal function.",
		"naproxen":  "NSAIDs can worsen renal function.",
		"metformin": "Risk of lactic acidosis with impaired renal clearance.",
		"lithium":   "Narrow therapeutic index — renal impairment increases toxicity.",
	},
	"liver disease": {
		"acetaminophen": "Hepatotoxic — avoid high doses with liver impairment.",
		"paracetamol":   "Hepatotoxic — avoid high doses with liver impairment.",
		"methotrexate":  "Can cause further liver damage.",
		"statins":       "May elevate liver enzymes.",
	},
	"heart disease": {
		"ibuprofen":  "NSAIDs increase cardiovascular event risk.",
		"naproxen":   "NSAIDs increase cardiovascular event risk.",
		"sildenafil": "Contraindicated with nitrates — severe hypotension.",
	},
	"gerd": {
		"aspirin":   "May worsen gastric erosion.",
		"ibuprofen": "NSAIDs aggravate acid reflux.",
		"naproxen":  "NSAIDs aggravate acid reflux.",
	},
}

// AllergyClasses expands an allergy declared as a drug class to the member
// drugs it covers.
var AllergyClasses = map[string][]string{
	"nsaid":         {"ibuprofen", "naproxen", "aspirin", "diclofenac", "celecoxib"},
	"penicillin":    {"amoxicillin", "ampicillin", "penicillin"},
	"sulfa":         {"sulfamethoxazole", "sulfasalazine", "dapsone"},
	"statin":        {"simvastatin", "atorvastatin", "rosuvastatin", "pravastatin"},
	"cephalosporin": {"cephalexin", "cefuroxime", "ceftriaxone"},
}

// DrugAliases expands a drug class typed in place of a medication name, used
// by the pairwise interaction checker.
var DrugAliases = map[string][]string{
	"nsaid":   {"ibuprofen", "naproxen", "diclofenac", "aspirin", "celecoxib"},
	"maoi":    {"phenelzine", "tranylcypromine", "selegiline"},
	"antacid": {"omeprazole", "pantoprazole", "ranitidine", "calcium carbonate"},
	"statin":  {"simvastatin", "atorvastatin", "rosuvastatin", "pravastatin"},
}

// AllergyCovers returns the drugs a single declared allergy term covers: the
// term itself plus the class members when the term names an allergy class.
func AllergyCovers(term string) []string {
	term = normalize.Name(term)
	return append([]string{term}, AllergyClasses[term]...)
}

// ExpandAliases returns the normalized medication names plus the members of
// any drug class among them. Expanding an already expanded set returns the
// same set.
func ExpandAliases(medications []string) map[string]struct{} {
	out := make(map[string]struct{}, len(medications))
	for _, m := range medications {
		name := normalize.Name(m)
		if name == "" {
			continue
		}
		out[name] = struct{}{}
		for _, member := range DrugAliases[name] {
			out[member] = struct{}{}
		}
	}
	return out
}
