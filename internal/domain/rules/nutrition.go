package rules

import "github.com/healthintel/healthintel/pkg/normalize"

// Macros is a daily amount of each tracked macronutrient.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// Nutrients lists the macro names in reporting order.
var Nutrients = []string{"calories", "protein", "carbs", "fats"}

// Get returns the named macro.
func (m Macros) Get(nutrient string) float64 {
	switch nutrient {
	case "calories":
		return m.Calories
	case "protein":
		return m.Protein
	case "carbs":
		return m.Carbs
	case "fats":
		return m.Fats
	}
	return 0
}

// Map returns every macro applied through fn.
func (m Macros) Map(fn func(float64) float64) Macros {
	return Macros{
		Calories: fn(m.Calories),
		Protein:  fn(m.Protein),
		Carbs:    fn(m.Carbs),
		Fats:     fn(m.Fats),
	}
}

var baseTargets = map[string]Macros{
	"male":    {Calories: 2500, Protein: 56, Carbs: 300, Fats: 78},
	"female":  {Calories: 2000, Protein: 46, Carbs: 250, Fats: 65},
	"default": {Calories: 2200, Protein: 50, Carbs: 275, Fats: 70},
}

// Baseline returns the daily baseline for a gender: "male"/"m", "female"/"f",
// anything else gets the default table.
func Baseline(gender string) Macros {
	switch normalize.Name(gender) {
	case "male", "m":
		return baseTargets["male"]
	case "female", "f":
		return baseTargets["female"]
	default:
		return baseTargets["default"]
	}
}

// AgeBracket is an inclusive age range and its target multiplier.
type AgeBracket struct {
	Min, Max   int
	Multiplier float64
}

// AgeBrackets are checked in order; the first bracket containing the age wins.
var AgeBrackets = []AgeBracket{
	{0, 12, 0.75},
	{13, 18, 0.95},
	{19, 30, 1.0},
	{31, 50, 0.95},
	{51, 65, 0.90},
	{66, 200, 0.80},
}

// AgeMultiplier returns the multiplier for age, or 1.0 when the age is
// unknown or outside every bracket.
func AgeMultiplier(age *int) float64 {
	if age == nil {
		return 1.0
	}
	for _, b := range AgeBrackets {
		if b.Min <= *age && *age <= b.Max {
			return b.Multiplier
		}
	}
	return 1.0
}

// NutrientDelta is one additive adjustment to a daily target.
type NutrientDelta struct {
	Nutrient string
	Delta    float64
}

// ConditionAdjustments maps a condition to its target adjustments.
var ConditionAdjustments = map[string][]NutrientDelta{
	"diabetes":       {{"carbs", -50}, {"protein", 10}},
	"hypertension":   {{"fats", -15}},
	"obesity":        {{"calories", -400}, {"carbs", -60}, {"fats", -20}},
	"kidney disease": {{"protein", -20}},
	"anemia":         {{"protein", 15}, {"calories", 200}},
	"heart disease":  {{"fats", -25}, {"calories", -200}},
}

// FoodSuggestions lists foods, in preference order, for raising a macro.
var FoodSuggestions = map[string][]string{
	"calories": {"oats", "banana", "peanut butter", "brown rice", "sweet potato"},
	"protein":  {"eggs", "chicken breast", "lentils (dal)", "paneer", "greek yogurt"},
	"carbs":    {"brown rice", "whole wheat roti", "quinoa", "sweet potato", "fruits"},
	"fats":     {"almonds", "avocado", "olive oil", "flaxseed", "ghee (moderate)"},
}

// FoodsToAvoid lists foods to avoid per condition.
var FoodsToAvoid = map[string][]string{
	"diabetes":       {"sugar", "white bread", "soda", "pastries", "white rice"},
	"hypertension":   {"salty snacks", "processed meats", "canned soups", "pickles"},
	"heart disease":  {"fried foods", "full-fat dairy", "red meat", "trans fats"},
	"kidney disease": {"processed meats", "dark colored sodas", "avocados (high potassium)"},
	"obesity":        {"fast food", "sugary drinks", "candies", "fried snacks"},
	"gerd":           {"spicy foods", "citrus fruits", "chocolate", "caffeine"},
}
