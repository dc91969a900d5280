// Package analysis holds the single-purpose engines over the CSV
// reference datasets and the ML sidecar: symptom severity, lab reference
// ranges, drug pairs, mental state, food lookup, regional disease alerts
// and the symptom triage composition.
package analysis

import (
	"github.com/healthintel/healthintel/pkg/lazy"
	"github.com/healthintel/healthintel/pkg/normalize"
	"github.com/healthintel/healthintel/pkg/refdata"
)

// Dataset file names under DATA_DIR.
const (
	SeverityFile     = "symptom_severity.csv"
	RangesFile       = "reference_ranges.csv"
	DrugPairsFile    = "drug_interactions.csv"
	FoodsFile        = "food_nutrients.csv"
	CasesFile        = "disease_cases.csv"
	DescriptionsFile = "disease_descriptions.csv"
	PrecautionsFile  = "disease_precautions.csv"
)

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type DrugPair struct {
	Drug1       string
	Drug2       string
	Interaction string
	Severity    string
}

type Food struct {
	Name     string
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

type CaseRecord struct {
	State   string
	Year    int
	Disease string
	Cases   int
}

// Datasets loads each reference file on first use and keeps it, or the
// load error, for the life of the process.
type Datasets struct {
	severity     *lazy.Value[map[string]int]
	ranges       *lazy.Value[map[string]Range]
	drugPairs    *lazy.Value[[]DrugPair]
	foods        *lazy.Value[[]Food]
	cases        *lazy.Value[[]CaseRecord]
	descriptions *lazy.Value[map[string]string]
	precautions  *lazy.Value[map[string][]string]
}

func NewDatasets(dir string) *Datasets {
	return &Datasets{
		severity:     lazy.New(func() (map[string]int, error) { return loadSeverity(dir) }),
		ranges:       lazy.New(func() (map[string]Range, error) { return loadRanges(dir) }),
		drugPairs:    lazy.New(func() ([]DrugPair, error) { return loadDrugPairs(dir) }),
		foods:        lazy.New(func() ([]Food, error) { return loadFoods(dir) }),
		cases:        lazy.New(func() ([]CaseRecord, error) { return loadCases(dir) }),
		descriptions: lazy.New(func() (map[string]string, error) { return loadDescriptions(dir) }),
		precautions:  lazy.New(func() (map[string][]string, error) { return loadPrecautions(dir) }),
	}
}

// DatasetStatus reports whether one dataset loaded.
type DatasetStatus struct {
	File string
	Rows int
	Err  error
}

// Check loads every dataset.
func (d *Datasets) Check() []DatasetStatus {
	status := func(file string, n int, err error) DatasetStatus {
		return DatasetStatus{File: file, Rows: n, Err: err}
	}
	sev, sevErr := d.severity.Get()
	rng, rngErr := d.ranges.Get()
	drg, drgErr := d.drugPairs.Get()
	fds, fdsErr := d.foods.Get()
	cs, csErr := d.cases.Get()
	desc, descErr := d.descriptions.Get()
	prec, precErr := d.precautions.Get()
	return []DatasetStatus{
		status(SeverityFile, len(sev), sevErr),
		status(RangesFile, len(rng), rngErr),
		status(DrugPairsFile, len(drg), drgErr),
		status(FoodsFile, len(fds), fdsErr),
		status(CasesFile, len(cs), csErr),
		status(DescriptionsFile, len(desc), descErr),
		status(PrecautionsFile, len(prec), precErr),
	}
}

func open(dir, file string, cols ...string) (*refdata.Table, error) {
	t, err := refdata.Open(dir, file)
	if err != nil {
		return nil, err
	}
	if err := t.Require(cols...); err != nil {
		return nil, err
	}
	return t, nil
}

func loadSeverity(dir string) (map[string]int, error) {
	t, err := open(dir, SeverityFile, "symptom", "weight")
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(t.Rows))
	for _, row := range t.Rows {
		w, err := t.Int(row, "weight")
		if err != nil {
			return nil, err
		}
		out[normalize.Name(t.Get(row, "symptom"))] = w
	}
	return out, nil
}

func loadRanges(dir string) (map[string]Range, error) {
	t, err := open(dir, RangesFile, "test", "min", "max")
	if err != nil {
		return nil, err
	}
	out := make(map[string]Range, len(t.Rows))
	for _, row := range t.Rows {
		lo, err := t.Float(row, "min")
		if err != nil {
			return nil, err
		}
		hi, err := t.Float(row, "max")
		if err != nil {
			return nil, err
		}
		out[t.Get(row, "test")] = Range{Min: lo, Max: hi}
	}
	return out, nil
}

func loadDrugPairs(dir string) ([]DrugPair, error) {
	t, err := open(dir, DrugPairsFile, "drug1", "drug2", "interaction")
	if err != nil {
		return nil, err
	}
	out := make([]DrugPair, 0, len(t.Rows))
	for _, row := range t.Rows {
		sev := t.Get(row, "severity")
		if sev == "" {
			sev = "Unknown"
		}
		out = append(out, DrugPair{
			Drug1:       normalize.Name(t.Get(row, "drug1")),
			Drug2:       normalize.Name(t.Get(row, "drug2")),
			Interaction: t.Get(row, "interaction"),
			Severity:    sev,
		})
	}
	return out, nil
}

func loadFoods(dir string) ([]Food, error) {
	t, err := open(dir, FoodsFile, "food", "calories", "protein", "carbohydrates", "fat")
	if err != nil {
		return nil, err
	}
	out := make([]Food, 0, len(t.Rows))
	for _, row := range t.Rows {
		f := Food{Name: t.Get(row, "food")}
		for col, dst := range map[string]*float64{
			"calories": &f.Calories, "protein": &f.Protein, "carbohydrates": &f.Carbs, "fat": &f.Fat,
		} {
			if *dst, err = t.Float(row, col); err != nil {
				return nil, err
			}
		}
		out = append(out, f)
	}
	return out, nil
}

func loadCases(dir string) ([]CaseRecord, error) {
	t, err := open(dir, CasesFile, "state", "year", "disease", "cases")
	if err != nil {
		return nil, err
	}
	out := make([]CaseRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		year, err := t.Int(row, "year")
		if err != nil {
			return nil, err
		}
		cases, err := t.Int(row, "cases")
		if err != nil {
			return nil, err
		}
		out = append(out, CaseRecord{State: t.Get(row, "state"), Year: year, Disease: t.Get(row, "disease"), Cases: cases})
	}
	return out, nil
}

func loadDescriptions(dir string) (map[string]string, error) {
	t, err := open(dir, DescriptionsFile, "disease", "description")
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		out[t.Get(row, "disease")] = t.Get(row, "description")
	}
	return out, nil
}

func loadPrecautions(dir string) (map[string][]string, error) {
	t, err := open(dir, PrecautionsFile, "disease")
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(t.Rows))
	for _, row := range t.Rows {
		out[t.Get(row, "disease")] = t.After(row, "disease")
	}
	return out, nil
}

