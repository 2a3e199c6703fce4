// Package postgres implements backend.Backend directly against the
// Postgres tables that the hosted PostgREST API exposes. It serves
// self-hosted deployments and moderator tooling that have a database
// connection instead of an anon key.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/pricemap-tw/pricemap/internal/backend"
	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
	"github.com/pricemap-tw/pricemap/pkg/logging"
)

var _ backend.Backend = (*Store)(nil)

// Store is a Postgres-backed backend.
type Store struct {
	db           *sql.DB
	historyLimit int
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.NewConfigError("postgres", "database URL is required", nil)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewConfigError("postgres", "failed to open database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.NewNetworkError("ping", "postgres", err)
	}
	logging.Ctx(ctx).Info().Msg("Connected to Postgres backend")
	return New(db), nil
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db, historyLimit: constants.PriceHistoryLimit}
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

const locationColumns = `id, city, coalesce(district, ''), coalesce(clinic, ''), coalesce(type, ''),
	coalesce(address, ''), price2_5mg, price5mg, price7_5mg, price10mg, price12_5mg, price15mg,
	coalesce(note, ''), coalesce(last_updated::text, ''), coalesce(is_cosmetic, false)`

type scanner interface {
	Scan(dest ...any) error
}

func scanLocation(row scanner) (locations.Location, error) {
	var (
		l        locations.Location
		category string
	)
	err := row.Scan(&l.ID, &l.City, &l.District, &l.Name, &category, &l.Address,
		&l.Price2_5mg, &l.Price5mg, &l.Price7_5mg, &l.Price10mg, &l.Price12_5mg, &l.Price15mg,
		&l.Note, &l.LastUpdated, &l.IsCosmetic)
	l.Category = locations.Category(category)
	return l, err
}

// ListLocations implements backend.Reader.
func (s *Store) ListLocations(ctx context.Context) ([]locations.Location, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+locationColumns+` FROM `+constants.TableLocations)
	if err != nil {
		return nil, wrap(constants.TableLocations, err)
	}
	defer func() { _ = rows.Close() }()

	out := []locations.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, errors.WrapParse("sql", constants.TableLocations, err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(constants.TableLocations, err)
	}
	return out, nil
}

// GetLocation implements backend.Reader.
func (s *Store) GetLocation(ctx context.Context, id int64) (*locations.Location, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM `+constants.TableLocations+` WHERE id = $1`, id)
	l, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("location", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, wrap(constants.TableLocations, err)
	}
	return &l, nil
}

// ListNotes implements backend.Reader.
func (s *Store) ListNotes(ctx context.Context, id int64) ([]locations.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mounjaro_data_id, coalesce(note, ''), created_at FROM `+constants.TableNotes+`
		 WHERE mounjaro_data_id = $1 ORDER BY created_at DESC`, id)
	if err != nil {
		return nil, wrap(constants.TableNotes, err)
	}
	defer func() { _ = rows.Close() }()

	out := []locations.Note{}
	for rows.Next() {
		var n locations.Note
		if err := rows.Scan(&n.ID, &n.LocationID, &n.Text, &n.CreatedAt); err != nil {
			return nil, errors.WrapParse("sql", constants.TableNotes, err)
		}
		out = append(out, n)
	}
	return out, wrap(constants.TableNotes, rows.Err())
}

// ListPriceHistory implements backend.Reader.
func (s *Store) ListPriceHistory(ctx context.Context, id int64) ([]locations.PricePoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT price5mg, price10mg, to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		 FROM `+constants.TablePriceHistory+`
		 WHERE mounjaro_data_id = $1 AND is_deleted = false
		 ORDER BY created_at DESC LIMIT $2`, id, s.historyLimit)
	if err != nil {
		return nil, wrap(constants.TablePriceHistory, err)
	}
	defer func() { _ = rows.Close() }()

	out := []locations.PricePoint{}
	for rows.Next() {
		var (
			p  locations.PricePoint
			at sql.NullString
		)
		if err := rows.Scan(&p.Price5mg, &p.Price10mg, &at); err != nil {
			return nil, errors.WrapParse("sql", constants.TablePriceHistory, err)
		}
		p.CreatedAt = at.String
		out = append(out, p)
	}
	return out, wrap(constants.TablePriceHistory, rows.Err())
}

// wrap maps driver errors into the pricemap taxonomy.
func wrap(table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errors.NewNetworkError("query", table, &canceledErr{err})
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &errors.APIError{
			Table:   table,
			Code:    string(pqErr.Code),
			Message: pqErr.Message,
			Err:     err,
		}
	}
	return errors.NewNetworkError("query", table, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == constants.UniqueViolation ||
		pqErr.Constraint == constants.DeletionQueueUniqueIx
}

type canceledErr struct{ err error }

func (c *canceledErr) Error() string        { return c.err.Error() }
func (c *canceledErr) Unwrap() error        { return c.err }
func (c *canceledErr) Is(target error) bool { return target == errors.ErrCanceled }

func marshalSnapshot(l locations.Location) ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, errors.WrapParse("json", "snapshot", err)
	}
	return data, nil
}
