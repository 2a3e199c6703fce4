package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
)

const reportColumns = `id, mounjaro_data_id, coalesce(city, ''), district, coalesce(clinic, ''), address,
	coalesce(type, ''), coalesce(is_cosmetic, false),
	price2_5mg, price5mg, price7_5mg, price10mg, price12_5mg, price15mg,
	note, coalesce(status, ''), coalesce(last_updated::text, ''), created_at`

func scanReport(row scanner) (*locations.Report, error) {
	var (
		r         locations.Report
		district  sql.NullString
		address   sql.NullString
		note      sql.NullString
		category  string
		createdAt sql.NullTime
	)
	err := row.Scan(&r.ID, &r.LocationID, &r.City, &district, &r.Name, &address,
		&category, &r.IsCosmetic,
		&r.Price2_5mg, &r.Price5mg, &r.Price7_5mg, &r.Price10mg, &r.Price12_5mg, &r.Price15mg,
		&note, &r.Status, &r.LastUpdated, &createdAt)
	if err != nil {
		return nil, err
	}
	r.Category = locations.Category(category)
	r.District = nullable(district)
	r.Address = nullable(address)
	r.Note = nullable(note)
	if createdAt.Valid {
		ts := locations.NewTimestamp(createdAt.Time)
		r.CreatedAt = &ts
	}
	return &r, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// FindPendingReport implements backend.Writer.
func (s *Store) FindPendingReport(ctx context.Context, locationID int64) (*locations.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM `+constants.TableReports+`
		WHERE mounjaro_data_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT 1`,
		locationID, constants.StatusPending)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(constants.TableReports, err)
	}
	return r, nil
}

// CreateReport implements backend.Writer.
func (s *Store) CreateReport(ctx context.Context, report *locations.Report) (*locations.Report, error) {
	row := s.db.QueryRowContext(ctx, `INSERT INTO `+constants.TableReports+`
		(mounjaro_data_id, city, district, clinic, address, type, is_cosmetic,
		 price2_5mg, price5mg, price7_5mg, price10mg, price12_5mg, price15mg,
		 note, status, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+reportColumns,
		report.LocationID, report.City, report.District, report.Name, report.Address,
		string(report.Category), report.IsCosmetic,
		report.Price2_5mg, report.Price5mg, report.Price7_5mg, report.Price10mg, report.Price12_5mg, report.Price15mg,
		report.Note, report.Status, lastUpdated(report.LastUpdated))
	r, err := scanReport(row)
	if err != nil {
		return nil, wrap(constants.TableReports, err)
	}
	return r, nil
}

// UpdateReport implements backend.Writer. A nil note keeps the stored one.
func (s *Store) UpdateReport(ctx context.Context, reportID int64, report *locations.Report) (*locations.Report, error) {
	row := s.db.QueryRowContext(ctx, `UPDATE `+constants.TableReports+` SET
		mounjaro_data_id = $2, city = $3, district = $4, clinic = $5, address = $6, type = $7,
		is_cosmetic = $8, price2_5mg = $9, price5mg = $10, price7_5mg = $11, price10mg = $12,
		price12_5mg = $13, price15mg = $14, note = coalesce($15, note), status = $16, last_updated = $17
		WHERE id = $1
		RETURNING `+reportColumns,
		reportID, report.LocationID, report.City, report.District, report.Name, report.Address,
		string(report.Category), report.IsCosmetic,
		report.Price2_5mg, report.Price5mg, report.Price7_5mg, report.Price10mg, report.Price12_5mg, report.Price15mg,
		report.Note, report.Status, lastUpdated(report.LastUpdated))
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("report", strconv.FormatInt(reportID, 10))
	}
	if err != nil {
		return nil, wrap(constants.TableReports, err)
	}
	return r, nil
}

// HasPendingDeletion implements backend.Writer.
func (s *Store) HasPendingDeletion(ctx context.Context, locationID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM `+constants.TableDeletionQueue+`
		WHERE mounjaro_data_id = $1 AND status = $2)`, locationID, constants.StatusPending).Scan(&exists)
	if err != nil {
		return false, wrap(constants.TableDeletionQueue, err)
	}
	return exists, nil
}

// CreateDeletionRequest implements backend.Writer.
func (s *Store) CreateDeletionRequest(ctx context.Context, req *locations.DeletionRequest) (*locations.DeletionRequest, error) {
	snapshot, err := marshalSnapshot(req.Snapshot)
	if err != nil {
		return nil, err
	}

	out := *req
	var (
		status    sql.NullString
		createdAt sql.NullTime
	)
	err = s.db.QueryRowContext(ctx, `INSERT INTO `+constants.TableDeletionQueue+`
		(mounjaro_data_id, reason, snapshot) VALUES ($1, $2, $3)
		RETURNING id, status, created_at`,
		req.LocationID, req.Reason, snapshot).Scan(&out.ID, &status, &createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.NewConflictError("deletion_request", strconv.FormatInt(req.LocationID, 10), errors.MsgDeletionPending, err)
		}
		return nil, wrap(constants.TableDeletionQueue, err)
	}
	out.Status = status.String
	if createdAt.Valid {
		ts := locations.NewTimestamp(createdAt.Time)
		out.CreatedAt = &ts
	}
	return &out, nil
}

func lastUpdated(s string) string {
	if s == "" {
		return time.Now().Format(constants.DateFormat)
	}
	return s
}
