package handlers

import (
	"net/http"

	"github.com/pricemap-tw/pricemap/internal/server/filter"
	"github.com/pricemap-tw/pricemap/internal/server/response"
	"github.com/pricemap-tw/pricemap/pkg/calculator"
)

// HandleDoseCalculator handles GET /api/v1/calculators/dose.
// @Summary Pen dose calculator
// @Description Dial clicks for a dose and the number of doses a pen gives
// @Tags calculators
// @Produce json
// @Param pen query string true "Pen strength in mg"
// @Param dose query number true "Dose in mg"
// @Success 200 {object} response.Response{data=calculator.DoseResult}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/calculators/dose [get].
func (h *Handlers) HandleDoseCalculator(w http.ResponseWriter, r *http.Request) {
	p, err := filter.ParseDoseParams(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	result, err := calculator.Dose(p.Pen, p.Dose)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, map[string]any{
		"result":     result,
		"fractional": result.Fractional(),
	})
}

// HandleBMRCalculator handles GET /api/v1/calculators/bmr.
// @Summary BMR and BMI
// @Tags calculators
// @Produce json
// @Param sex query string true "male or female"
// @Param age query number true "Age in years"
// @Param height query number true "Height in cm"
// @Param weight query number true "Weight in kg"
// @Success 200 {object} response.Response{data=calculator.BMRResult}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/calculators/bmr [get].
func (h *Handlers) HandleBMRCalculator(w http.ResponseWriter, r *http.Request) {
	p, err := filter.ParseBMRParams(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	result, err := calculator.BMR(p.Sex, p.Age, p.Height, p.Weight)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, result)
}
