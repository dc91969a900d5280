// Package analytics serves chart-ready views of the health logs and the
// BMI, calorie need and lifestyle health score calculator.
package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/healthintel/healthintel/pkg/apperrors"
	"github.com/healthintel/healthintel/pkg/mathutil"
)

var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

var activityBonus = map[string]int{
	"sedentary":   -15,
	"light":       -5,
	"moderate":    0,
	"active":      5,
	"very_active": 10,
}

// BMI returns weight / height² formatted to two decimals, or nil when
// either input is not positive.
func BMI(weightKg, heightCm float64) *string {
	if weightKg <= 0 || heightCm <= 0 {
		return nil
	}
	m := heightCm / 100
	s := fmt.Sprintf("%.2f", weightKg/(m*m))
	return &s
}

// DailyCalories is the Mifflin-St Jeor BMR times the activity multiplier,
// truncated. Unknown activity levels use the moderate multiplier.
func DailyCalories(age int, gender string, weightKg, heightCm float64, activity string) int {
	if weightKg <= 0 || heightCm <= 0 || age <= 0 {
		return 0
	}
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch strings.ToLower(gender) {
	case "male", "m":
		bmr += 5
	default:
		bmr -= 161
	}
	mult, ok := activityMultipliers[strings.ToLower(activity)]
	if !ok {
		mult = activityMultipliers["moderate"]
	}
	return int(bmr * mult)
}

// HealthScore starts at 100 and applies the BMI, activity, sleep and stress
// adjustments, clamped to [0, 100].
func HealthScore(weightKg, heightCm float64, activity string, sleepHours float64, stress int) int {
	score := 100

	if s := BMI(weightKg, heightCm); s != nil {
		// the rounded value is what gets bucketed
		bmi, _ := strconv.ParseFloat(*s, 64)
		switch {
		case bmi < 18.5:
			score -= 10
		case bmi >= 25 && bmi < 30:
			score -= 10
		case bmi >= 30:
			score -= 20
		}
	} else {
		score -= 5
	}

	score += activityBonus[strings.ToLower(activity)]

	switch {
	case sleepHours < 5:
		score -= 15
	case sleepHours < 7:
		score -= 5
	case sleepHours > 9:
		score -= 5
	}

	switch {
	case stress >= 9:
		score -= 25
	case stress >= 7:
		score -= 15
	case stress >= 4:
		score -= 5
	}

	return mathutil.Clamp(score, 0, 100)
}

func HealthStatus(score int) string {
	switch {
	case score >= 85:
		return "Excellent"
	case score >= 70:
		return "Good"
	case score >= 50:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

type ScoreRequest struct {
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	WeightKg      float64 `json:"weight_kg"`
	HeightCm      float64 `json:"height_cm"`
	ActivityLevel string  `json:"activity_level"`
	SleepHours    float64 `json:"sleep_hours"`
	StressLevel   int     `json:"stress_level"`
}

func (r ScoreRequest) Validate() error {
	switch {
	case r.Age <= 0 || r.Age > 120:
		return apperrors.Validation("age must be between 1 and 120")
	case r.Gender != "male" && r.Gender != "female" && r.Gender != "other":
		return apperrors.Validation("gender must be male, female or other")
	case r.WeightKg <= 0:
		return apperrors.Validation("weight_kg must be positive")
	case r.HeightCm <= 0:
		return apperrors.Validation("height_cm must be positive")
	case activityMultipliers[r.ActivityLevel] == 0:
		return apperrors.Validation("activity_level must be one of sedentary, light, moderate, active, very_active")
	case r.SleepHours < 0 || r.SleepHours > 24:
		return apperrors.Validation("sleep_hours must be between 0 and 24")
	case r.StressLevel < 1 || r.StressLevel > 10:
		return apperrors.Validation("stress_level must be between 1 and 10")
	}
	return nil
}

type ScoreResponse struct {
	BMI           *string `json:"bmi"`
	DailyCalories int     `json:"daily_calories"`
	HealthScore   int     `json:"health_score"`
	HealthStatus  string  `json:"health_status"`
}

// Score validates the request and computes every figure.
func Score(r ScoreRequest) (*ScoreResponse, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	score := HealthScore(r.WeightKg, r.HeightCm, r.ActivityLevel, r.SleepHours, r.StressLevel)
	return &ScoreResponse{
		BMI:           BMI(r.WeightKg, r.HeightCm),
		DailyCalories: DailyCalories(r.Age, r.Gender, r.WeightKg, r.HeightCm, r.ActivityLevel),
		HealthScore:   score,
		HealthStatus:  HealthStatus(score),
	}, nil
}
