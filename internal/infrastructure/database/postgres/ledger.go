package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/titleorder/internal/application/order"
	"github.com/turtacn/titleorder/internal/domain/catalog"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/pkg/client"
	"github.com/turtacn/titleorder/pkg/errors"
)

const pgUniqueViolation = "23505"

const (
	insertPlacement = `
		INSERT INTO placements (id, session_id, matter_reference, jurisdiction, placed_at)
		VALUES ($1, $2, $3, $4, $5)`

	insertPlacementLine = `
		INSERT INTO placement_lines (
			placement_id, line_id, product_code, search_type, fulfilment, description,
			title_references, fields, unit_price, quantity, status, order_id, message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	selectPlacement = `
		SELECT id, session_id, matter_reference, jurisdiction, placed_at
		FROM placements WHERE id = $1`

	selectPlacementLines = `
		SELECT line_id, product_code, search_type, fulfilment, description,
		       title_references, fields, unit_price, quantity, status, order_id, message
		FROM placement_lines WHERE placement_id = $1 ORDER BY line_id`

	selectPlacementIDsByMatter = `
		SELECT id FROM placements WHERE matter_reference = $1 ORDER BY placed_at DESC LIMIT $2`
)

// ErrPlacementExists is returned when a placement id is recorded twice.
var ErrPlacementExists = errors.New(errors.ErrCodeConflict, "placement already recorded")

// Ledger records placement outcomes.  It implements order.Ledger.
type Ledger struct {
	conn   *Connection
	logger logging.Logger
}

// NewLedger returns a Ledger over conn.
func NewLedger(conn *Connection, log logging.Logger) *Ledger {
	return &Ledger{conn: conn, logger: log}
}

// RecordPlacement stores p and all of its lines in one transaction.
func (l *Ledger) RecordPlacement(ctx context.Context, p *order.Placement) error {
	if p == nil || p.ID == "" {
		return errors.New(errors.ErrCodeValidation, "placement id required")
	}
	err := l.conn.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertPlacement,
			p.ID, p.SessionID, p.MatterReference, string(p.Jurisdiction), p.PlacedAt); err != nil {
			var pgErr *pgconn.PgError
			if stderrors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return ErrPlacementExists.WithDetail(p.ID).WithCause(err)
			}
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert placement")
		}
		for _, line := range p.Lines {
			if err := insertLine(ctx, tx, p.ID, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	l.logger.Debug("placement recorded",
		logging.String("placement_id", p.ID),
		logging.Int("lines", len(p.Lines)))
	return nil
}

func insertLine(ctx context.Context, tx *sql.Tx, placementID string, line order.PlacedLine) error {
	refs := line.Request.TitleReferences
	if refs == nil {
		refs = []string{}
	}
	fields := line.Request.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	refsJSON, err := json.Marshal(refs)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal title references")
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal line fields")
	}
	_, err = tx.ExecContext(ctx, insertPlacementLine,
		placementID,
		line.Request.LineID,
		line.Request.ProductCode,
		line.Request.SearchType,
		line.Request.Fulfilment,
		line.Request.Description,
		refsJSON,
		fieldsJSON,
		line.Request.UnitPrice,
		line.Request.Quantity,
		string(line.Result.Status),
		line.Result.OrderID,
		line.Result.Message,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert placement line").WithDetail(line.Request.LineID)
	}
	return nil
}

// GetPlacement loads a recorded placement with its lines.
func (l *Ledger) GetPlacement(ctx context.Context, id string) (*order.Placement, error) {
	db := l.conn.DB()
	var (
		p     order.Placement
		juris string
	)
	err := db.QueryRowContext(ctx, selectPlacement, id).
		Scan(&p.ID, &p.SessionID, &p.MatterReference, &juris, &p.PlacedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("placement not found").WithDetail(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load placement")
	}
	p.Jurisdiction = catalog.Jurisdiction(juris)

	rows, err := db.QueryContext(ctx, selectPlacementLines, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load placement lines")
	}
	defer rows.Close()

	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		line.Request.Jurisdiction = juris
		line.Request.MatterReference = p.MatterReference
		p.Lines = append(p.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate placement lines")
	}
	return &p, nil
}

// ListByMatter returns up to limit placements for a matter, newest first.
func (l *Ledger) ListByMatter(ctx context.Context, matter string, limit int) ([]*order.Placement, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.conn.DB().QueryContext(ctx, selectPlacementIDsByMatter, matter, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list placements")
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan placement id")
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate placements")
	}

	out := make([]*order.Placement, 0, len(ids))
	for _, id := range ids {
		p, err := l.GetPlacement(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLine(s scanner) (order.PlacedLine, error) {
	var (
		line       order.PlacedLine
		refsJSON   []byte
		fieldsJSON []byte
		status     string
	)
	err := s.Scan(
		&line.Request.LineID,
		&line.Request.ProductCode,
		&line.Request.SearchType,
		&line.Request.Fulfilment,
		&line.Request.Description,
		&refsJSON,
		&fieldsJSON,
		&line.Request.UnitPrice,
		&line.Request.Quantity,
		&status,
		&line.Result.OrderID,
		&line.Result.Message,
	)
	if err != nil {
		return line, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan placement line")
	}
	if err := json.Unmarshal(refsJSON, &line.Request.TitleReferences); err != nil {
		return line, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode title references")
	}
	if err := json.Unmarshal(fieldsJSON, &line.Request.Fields); err != nil {
		return line, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode line fields")
	}
	if len(line.Request.TitleReferences) == 0 {
		line.Request.TitleReferences = nil
	}
	if len(line.Request.Fields) == 0 {
		line.Request.Fields = nil
	}
	line.Result.LineID = line.Request.LineID
	line.Result.Status = client.LineStatus(status)
	return line, nil
}
