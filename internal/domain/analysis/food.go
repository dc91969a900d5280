package analysis

import (
	"strings"

	"github.com/healthintel/healthintel/pkg/apperrors"
)

type FoodFacts struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Food looks a food up by case-insensitive name. The first row wins.
func (e *Engine) Food(name string) (*FoodFacts, error) {
	foods, err := e.data.foods.Get()
	if err != nil {
		return nil, apperrors.Unavailable("Food database unavailable", err)
	}
	for _, f := range foods {
		if strings.EqualFold(f.Name, name) {
			return &FoodFacts{Calories: f.Calories, Protein: f.Protein, Carbs: f.Carbs, Fat: f.Fat}, nil
		}
	}
	return nil, apperrors.NotFound("Food not found")
}
