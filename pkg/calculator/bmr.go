package calculator

import (
	"math"
	"strings"

	"github.com/pricemap-tw/pricemap/pkg/errors"
)

// Sex selects the Mifflin-St Jeor constant.
type Sex string

// Sexes.
const (
	Male   Sex = "male"
	Female Sex = "female"
)

// ParseSex accepts male/female, m/f and 男/女.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "男":
		return Male, nil
	case "female", "f", "女":
		return Female, nil
	}
	return "", errors.NewValidationError("sex", s, errors.MsgInvalidParameter)
}

// BMRResult holds basal metabolic rate in kcal/day and BMI.
type BMRResult struct {
	BMR int     `json:"bmr" yaml:"bmr"`
	BMI float64 `json:"bmi" yaml:"bmi"` // one decimal
}

// BMR computes basal metabolic rate (Mifflin-St Jeor) and BMI.
func BMR(sex Sex, ageYears, heightCm, weightKg float64) (BMRResult, error) {
	if sex != Male && sex != Female {
		return BMRResult{}, errors.NewValidationError("sex", sex, errors.MsgInvalidParameter)
	}
	for field, v := range map[string]float64{"age": ageYears, "height": heightCm, "weight": weightKg} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return BMRResult{}, errors.NewValidationError(field, v, errors.MsgInvalidParameter)
		}
	}

	bmr := 10*weightKg + 6.25*heightCm - 5*ageYears
	if sex == Male {
		bmr += 5
	} else {
		bmr -= 161
	}

	meters := heightCm / 100
	return BMRResult{
		BMR: int(math.Round(bmr)),
		BMI: Round(weightKg/(meters*meters), 1),
	}, nil
}
