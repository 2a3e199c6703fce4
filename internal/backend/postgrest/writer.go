package postgrest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
)

// FindPendingReport implements backend.Writer.
func (c *Client) FindPendingReport(ctx context.Context, locationID int64) (*locations.Report, error) {
	var rows []locations.Report
	q := url.Values{
		"mounjaro_data_id": {eq(locationID)},
		"status":           {eq(constants.StatusPending)},
		"select":           {"*"},
		"order":            {"created_at.desc"},
		"limit":            {"1"},
	}
	if err := c.do(ctx, http.MethodGet, constants.TableReports, q, nil, &rows, false); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// CreateReport implements backend.Writer.
func (c *Client) CreateReport(ctx context.Context, report *locations.Report) (*locations.Report, error) {
	var rows []locations.Report
	if err := c.do(ctx, http.MethodPost, constants.TableReports, nil, report, &rows, true); err != nil {
		return nil, err
	}
	return firstOr(rows, report), nil
}

// UpdateReport implements backend.Writer.
func (c *Client) UpdateReport(ctx context.Context, reportID int64, report *locations.Report) (*locations.Report, error) {
	var rows []locations.Report
	q := url.Values{"id": {eq(reportID)}}
	if err := c.do(ctx, http.MethodPatch, constants.TableReports, q, report, &rows, true); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		// PATCH matched nothing: the report left the pending state meanwhile.
		return nil, errors.NewNotFoundError("report", strconv.FormatInt(reportID, 10))
	}
	return &rows[0], nil
}

// HasPendingDeletion implements backend.Writer.
func (c *Client) HasPendingDeletion(ctx context.Context, locationID int64) (bool, error) {
	var rows []struct {
		ID int64 `json:"id"`
	}
	q := url.Values{
		"mounjaro_data_id": {eq(locationID)},
		"status":           {eq(constants.StatusPending)},
		"select":           {"id"},
	}
	if err := c.do(ctx, http.MethodGet, constants.TableDeletionQueue, q, nil, &rows, false); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// CreateDeletionRequest implements backend.Writer.
func (c *Client) CreateDeletionRequest(ctx context.Context, req *locations.DeletionRequest) (*locations.DeletionRequest, error) {
	body := struct {
		LocationID int64              `json:"mounjaro_data_id"`
		Reason     string             `json:"reason"`
		Snapshot   locations.Location `json:"snapshot"`
	}{req.LocationID, req.Reason, req.Snapshot}

	var rows []locations.DeletionRequest
	err := c.do(ctx, http.MethodPost, constants.TableDeletionQueue, nil, body, &rows, true)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.NewConflictError("deletion_request", strconv.FormatInt(req.LocationID, 10), errors.MsgDeletionPending, err)
		}
		return nil, err
	}
	return firstOr(rows, req), nil
}

func isUniqueViolation(err error) bool {
	var apiErr *errors.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == constants.UniqueViolation ||
		strings.Contains(apiErr.Message, constants.DeletionQueueUniqueIx)
}

func firstOr[T any](rows []T, fallback *T) *T {
	if len(rows) == 0 {
		return fallback
	}
	return &rows[0]
}
