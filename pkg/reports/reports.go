// Package reports submits visitor corrections and deletion requests to the
// moderation queues.
//
// A location has at most one pending report: a second submission amends
// the pending row in place instead of adding another. A blank note is left
// out of the payload so it never overwrites a note recorded earlier.
// Validation runs before any network call, and there is no retry.
package reports

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
	"github.com/pricemap-tw/pricemap/pkg/logging"
)

// Queue is the moderation-queue side of the backend.
type Queue interface {
	FindPendingReport(ctx context.Context, locationID int64) (*locations.Report, error)
	CreateReport(ctx context.Context, report *locations.Report) (*locations.Report, error)
	UpdateReport(ctx context.Context, reportID int64, report *locations.Report) (*locations.Report, error)
	HasPendingDeletion(ctx context.Context, locationID int64) (bool, error)
	CreateDeletionRequest(ctx context.Context, req *locations.DeletionRequest) (*locations.DeletionRequest, error)
}

// Draft is what the visitor typed into the report form. Every field is
// taken as typed: a blank district, address or note is sent as null. Use
// DraftFromLocation to start from the target's current values.
type Draft struct {
	Name     string                             `json:"clinic" yaml:"clinic"`
	Category string                             `json:"type" yaml:"type"`
	District string                             `json:"district" yaml:"district"`
	Address  string                             `json:"address" yaml:"address"`
	Prices   map[locations.Dose]locations.Price `json:"-" yaml:"-"`
	Note     string                             `json:"note" yaml:"note"`
}

// DraftFromLocation pre-fills a draft with the target's current values,
// as the report form does when it opens.
func DraftFromLocation(l locations.Location) Draft {
	d := Draft{
		Name:     l.Name,
		Category: string(l.Category.Normalized()),
		District: l.District,
		Address:  l.Address,
		Prices:   make(map[locations.Dose]locations.Price, len(locations.Doses)),
	}
	for _, dose := range locations.Doses {
		if p := l.Price(dose); p.Offered() {
			d.Prices[dose] = p
		}
	}
	return d
}

// HasPrice reports whether at least one dose price is filled in.
func (d Draft) HasPrice() bool {
	for _, p := range d.Prices {
		if p.Offered() {
			return true
		}
	}
	return false
}

// Outcome describes a stored report.
type Outcome struct {
	Report *locations.Report `json:"report" yaml:"report"`
	// Amended is true when an existing pending report was updated.
	Amended bool `json:"amended" yaml:"amended"`
	// IdentityChanged is true when the name, category or district differs
	// from the target; such edits need a moderator's closer look.
	IdentityChanged bool `json:"identity_changed" yaml:"identity_changed"`
}

// Submitter validates and sends reports and deletion requests.
type Submitter struct {
	queue Queue
	now   func() time.Time
}

// NewSubmitter creates a Submitter writing to queue.
func NewSubmitter(queue Queue) *Submitter {
	return &Submitter{queue: queue, now: time.Now}
}

// Validate checks a report draft without touching the network.
func Validate(target locations.Location, d Draft) error {
	if !target.HasID() {
		return errors.NewValidationError("mounjaro_data_id", target.ID, errors.MsgTargetRequired)
	}
	if strings.TrimSpace(d.Name) == "" {
		return errors.NewValidationError("clinic", d.Name, errors.MsgNameRequired)
	}
	if !d.HasPrice() {
		return errors.NewValidationError("price", nil, errors.MsgPriceRequired)
	}
	return nil
}

// IdentityChanged reports whether d renames, recategorizes or moves target.
func IdentityChanged(target locations.Location, d Draft) bool {
	original := strings.TrimSpace(target.Name)
	edited := strings.TrimSpace(d.Name)
	renamed := original != "" && edited != "" && original != edited

	recategorized := target.Category.Normalized() != locations.NormalizeCategory(d.Category)
	moved := strings.TrimSpace(target.District) != strings.TrimSpace(d.District)

	return renamed || recategorized || moved
}

// BuildReport turns a validated draft into the report row.
func (s *Submitter) BuildReport(target locations.Location, d Draft) *locations.Report {
	r := &locations.Report{
		LocationID:  target.ID,
		City:        target.City,
		District:    locations.StringPtr(d.District),
		Name:        strings.TrimSpace(d.Name),
		Address:     locations.StringPtr(d.Address),
		Category:    locations.NormalizeCategory(d.Category),
		IsCosmetic:  target.IsCosmetic,
		Note:        locations.StringPtr(d.Note),
		Status:      constants.StatusPending,
		LastUpdated: s.now().Format(constants.DateFormat),
	}
	for dose, p := range d.Prices {
		if p.Offered() {
			r.SetPrice(dose, p)
		}
	}
	return r
}

// SubmitReport stores a correction for target, amending the pending report
// for the location when one exists.
func (s *Submitter) SubmitReport(ctx context.Context, target locations.Location, d Draft) (*Outcome, error) {
	if err := Validate(target, d); err != nil {
		return nil, err
	}

	ctx = logging.WithOperation(logging.WithLocation(ctx, strconv.FormatInt(target.ID, 10)), "submit_report")
	logger := logging.Ctx(ctx)

	existing, err := s.queue.FindPendingReport(ctx, target.ID)
	if err != nil {
		logger.Warn().Err(err).Msg("Pending report lookup failed")
		return nil, err
	}

	report := s.BuildReport(target, d)
	outcome := &Outcome{IdentityChanged: IdentityChanged(target, d)}

	if existing != nil && existing.ID != 0 {
		outcome.Report, err = s.queue.UpdateReport(ctx, existing.ID, report)
		outcome.Amended = true
	} else {
		outcome.Report, err = s.queue.CreateReport(ctx, report)
	}
	if err != nil {
		logger.Warn().Err(err).Bool("amend", outcome.Amended).Msg("Report submission failed")
		return nil, err
	}

	logger.Info().
		Bool("amended", outcome.Amended).
		Bool("identity_changed", outcome.IdentityChanged).
		Msg("Report submitted")
	return outcome, nil
}

// RequestDeletion queues target for removal. A second pending request for
// the same location fails with *errors.ConflictError.
func (s *Submitter) RequestDeletion(ctx context.Context, target locations.Location, reason string) (*locations.DeletionRequest, error) {
	if !target.HasID() {
		return nil, errors.NewValidationError("mounjaro_data_id", target.ID, errors.MsgTargetRequired)
	}
	if strings.TrimSpace(reason) == "" {
		return nil, errors.NewValidationError("reason", reason, errors.MsgReasonRequired)
	}

	id := strconv.FormatInt(target.ID, 10)
	ctx = logging.WithOperation(logging.WithLocation(ctx, id), "request_deletion")
	logger := logging.Ctx(ctx)

	pending, err := s.queue.HasPendingDeletion(ctx, target.ID)
	if err != nil {
		logger.Warn().Err(err).Msg("Pending deletion lookup failed")
		return nil, err
	}
	if pending {
		return nil, errors.NewConflictError("deletion_request", id, errors.MsgDeletionPending, nil)
	}

	req, err := s.queue.CreateDeletionRequest(ctx, &locations.DeletionRequest{
		LocationID: target.ID,
		Reason:     reason,
		Snapshot:   target,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Deletion request failed")
		return nil, err
	}
	logger.Info().Msg("Deletion requested")
	return req, nil
}
