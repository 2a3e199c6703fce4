package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pricemap-tw/pricemap/internal/server/filter"
	"github.com/pricemap-tw/pricemap/internal/server/response"
	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
	"github.com/pricemap-tw/pricemap/pkg/logging"
	"github.com/pricemap-tw/pricemap/pkg/reports"
)

// ReportRequest is the body of a report submission.
type ReportRequest struct {
	Clinic      string          `json:"clinic"`
	Type        string          `json:"type"`
	District    string          `json:"district"`
	Address     string          `json:"address"`
	Price2_5mg  locations.Price `json:"price2_5mg"`
	Price5mg    locations.Price `json:"price5mg"`
	Price7_5mg  locations.Price `json:"price7_5mg"`
	Price10mg   locations.Price `json:"price10mg"`
	Price12_5mg locations.Price `json:"price12_5mg"`
	Price15mg   locations.Price `json:"price15mg"`
	Note        string          `json:"note"`
}

// Draft converts the request body to a report draft.
func (req ReportRequest) Draft() reports.Draft {
	d := reports.Draft{
		Name:     req.Clinic,
		Category: req.Type,
		District: req.District,
		Address:  req.Address,
		Note:     req.Note,
		Prices:   make(map[locations.Dose]locations.Price, len(locations.Doses)),
	}
	for dose, p := range map[locations.Dose]locations.Price{
		locations.Dose2_5:  req.Price2_5mg,
		locations.Dose5:    req.Price5mg,
		locations.Dose7_5:  req.Price7_5mg,
		locations.Dose10:   req.Price10mg,
		locations.Dose12_5: req.Price12_5mg,
		locations.Dose15:   req.Price15mg,
	} {
		if p.Offered() {
			d.Prices[dose] = p
		}
	}
	return d
}

// DeletionRequest is the body of a deletion request.
type DeletionRequest struct {
	Reason string `json:"reason"`
}

// HandleSubmitReport handles POST /api/v1/locations/{id}/reports.
// @Summary Submit a report
// @Description Creates the pending report for a location, or amends the one already pending
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path integer true "Location ID"
// @Param request body ReportRequest true "Corrected values"
// @Success 201 {object} response.Response{data=reports.Outcome}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 404 {object} response.Response{error=response.Error}
// @Failure 502 {object} response.Response{error=response.Error}
// @Router /api/v1/locations/{id}/reports [post].
func (h *Handlers) HandleSubmitReport(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := filter.ParseID(rawID)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	var req ReportRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	outcome, err := h.client.SubmitReport(r.Context(), id, req.Draft())
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Int64("id", id).Msg("Report submission failed")
		response.ErrorFromType(w, err)
		return
	}

	response.Created(w, outcome)
}

// HandleRequestDeletion handles POST /api/v1/locations/{id}/deletions.
// @Summary Request deletion
// @Description Queues a location for removal; only one request may be pending per location
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path integer true "Location ID"
// @Param request body DeletionRequest true "Reason"
// @Success 201 {object} response.Response{data=locations.DeletionRequest}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 409 {object} response.Response{error=response.Error}
// @Router /api/v1/locations/{id}/deletions [post].
func (h *Handlers) HandleRequestDeletion(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := filter.ParseID(rawID)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	var req DeletionRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	queued, err := h.client.RequestDeletion(r.Context(), id, req.Reason)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Int64("id", id).Msg("Deletion request failed")
		response.ErrorFromType(w, err)
		return
	}

	response.Created(w, queued)
}

// decodeBody reads a bounded JSON body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewValidationError("body", nil, errors.MsgInvalidParameter)
	}
	return nil
}
