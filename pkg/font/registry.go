package font

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

const (
	recordColumns = "`family`, `weight`, `style`, `variant`, `format`, `path`"

	insertRecordSQL = "INSERT OR IGNORE INTO `fonts` (" + recordColumns + ") VALUES (?, ?, ?, ?, ?, ?)"

	// formatOrder sorts ttf before otf before everything else.
	formatOrder = "CASE `format` WHEN 'ttf' THEN 0 WHEN 'otf' THEN 1 ELSE 2 END"
)

// Registry persists font records in the fonts table.
type Registry struct {
	conn sqlx.SqlConn
}

// NewRegistry creates a registry on top of a go-zero SQL connection.
func NewRegistry(conn sqlx.SqlConn) *Registry {
	return &Registry{conn: conn}
}

// Replace swaps the full record set in a single transaction, so readers see
// either the previous set or the new one.
func (r *Registry) Replace(ctx context.Context, records []Record) error {
	return r.conn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		if _, err := session.ExecCtx(ctx, "DELETE FROM `fonts`"); err != nil {
			return fmt.Errorf("clear fonts: %w", err)
		}
		for _, rec := range records {
			if _, err := session.ExecCtx(ctx, insertRecordSQL,
				rec.Family, rec.Weight, rec.Style, rec.Variant, rec.Format, rec.Path); err != nil {
				return fmt.Errorf("insert %s: %w", rec.Path, err)
			}
		}
		return nil
	})
}

// List returns every record in a stable order.
func (r *Registry) List(ctx context.Context) ([]Record, error) {
	var records []Record
	err := r.conn.QueryRowsCtx(ctx, &records, "SELECT "+recordColumns+
		" FROM `fonts` ORDER BY `family`, `weight`, `style`, `variant`, "+formatOrder+", `path`")
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListFamily returns the records of one family.
func (r *Registry) ListFamily(ctx context.Context, family string) ([]Record, error) {
	var records []Record
	err := r.conn.QueryRowsCtx(ctx, &records, "SELECT "+recordColumns+
		" FROM `fonts` WHERE `family` = ? ORDER BY `weight`, `style`, `variant`, "+formatOrder+", `path`", family)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the number of indexed records.
func (r *Registry) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.conn.QueryRowCtx(ctx, &count, "SELECT COUNT(*) FROM `fonts`"); err != nil {
		return 0, err
	}
	return count, nil
}

// first runs a LIMIT 1 query and reports whether a row matched.
func (r *Registry) first(ctx context.Context, where, orderBy string, args ...any) (Record, bool, error) {
	var rec Record
	query := "SELECT " + recordColumns + " FROM `fonts` WHERE " + where + " ORDER BY " + orderBy + " LIMIT 1"
	err := r.conn.QueryRowCtx(ctx, &rec, query, args...)
	switch {
	case err == nil:
		return rec, true, nil
	case errors.Is(err, sqlx.ErrNotFound):
		return Record{}, false, nil
	default:
		return Record{}, false, err
	}
}
