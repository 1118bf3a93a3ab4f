package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rick2x/fieldprofiler/domain/core"
	"github.com/rick2x/fieldprofiler/domain/field"
	"github.com/rick2x/fieldprofiler/domain/profile"
)

// LayerSourceImpl implements a layer source over one PostgreSQL table. The
// table must expose an integer primary key column serving as the record ID.
type LayerSourceImpl struct {
	db       *sqlx.DB
	schema   string
	table    string
	idColumn string
}

// Connect opens a PostgreSQL connection pool.
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// NewLayerSource creates a layer source over schema.table keyed by idColumn.
func NewLayerSource(db *sqlx.DB, schema, table, idColumn string) *LayerSourceImpl {
	if schema == "" {
		schema = "public"
	}
	if idColumn == "" {
		idColumn = "id"
	}
	return &LayerSourceImpl{db: db, schema: schema, table: table, idColumn: idColumn}
}

// Fields lists the table's columns, the ID column excluded, with storage
// types mapped from the catalog's data types.
func (s *LayerSourceImpl) Fields(ctx context.Context) ([]field.Info, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`, s.schema, s.table)
	if err != nil {
		return nil, fmt.Errorf("failed to read table schema: %w", err)
	}
	defer rows.Close()

	var infos []field.Info
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, err
		}
		if name == s.idColumn {
			continue
		}
		infos = append(infos, field.Info{Name: name, Storage: storageFromDataType(dataType)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("%w: table %s.%s", core.ErrLayerNotFound, s.schema, s.table)
	}
	return infos, nil
}

// storageFromDataType maps information_schema data types onto the storage
// taxonomy. Unmapped types land on unknown and profile as text downstream.
func storageFromDataType(dataType string) field.StorageType {
	switch strings.ToLower(dataType) {
	case "smallint", "integer", "bigint", "numeric", "decimal", "real", "double precision":
		return field.StorageNumeric
	case "character varying", "character", "text", "uuid":
		return field.StorageString
	case "date":
		return field.StorageDate
	case "timestamp without time zone", "timestamp with time zone":
		return field.StorageDateTime
	case "boolean":
		return field.StorageBoolean
	}
	return field.StorageUnknown
}

// Extract reads one column's values over the given scope, ordered by record
// ID for deterministic set order.
func (s *LayerSourceImpl) Extract(ctx context.Context, fieldName string, scope profile.Scope) (*field.ValueSet, error) {
	storage, err := s.columnStorage(ctx, fieldName)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s, %s FROM %s`,
		pq.QuoteIdentifier(s.idColumn), pq.QuoteIdentifier(fieldName), s.qualifiedTable())
	args := []interface{}{}
	if scope.IsSelection() {
		query += fmt.Sprintf(` WHERE %s = ANY($1)`, pq.QuoteIdentifier(s.idColumn))
		args = append(args, pq.Array(recordIDs64(scope.IDs())))
	}
	query += fmt.Sprintf(` ORDER BY %s`, pq.QuoteIdentifier(s.idColumn))

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to extract column %s: %w", fieldName, err)
	}
	defer rows.Close()

	set := field.NewValueSet(0)
	for rows.Next() {
		var id int64
		var raw interface{}
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		set.Append(field.RecordID(id), valueFromSQL(raw, storage))
	}
	return set, rows.Err()
}

// SelectWhere evaluates a condition as SQL within the given scope.
func (s *LayerSourceImpl) SelectWhere(ctx context.Context, cond profile.Condition, scope profile.Scope) ([]field.RecordID, error) {
	if _, err := s.columnStorage(ctx, cond.Field); err != nil {
		return nil, err
	}

	col := pq.QuoteIdentifier(cond.Field)
	var where string
	var args []interface{}
	switch cond.Op {
	case profile.OpIsNull:
		where = col + " IS NULL"
	case profile.OpEquals:
		if cond.Value.IsNull() {
			where = col + " IS NULL"
		} else {
			where = col + "::text = $1"
			args = append(args, cond.Value.String())
		}
	case profile.OpNotTrimmed:
		// Non-empty strings carrying leading or trailing whitespace.
		where = col + ` <> '' AND ` + col + ` ~ '^[ \t]|[ \t]$'`
	case profile.OpOutsideBounds:
		where = fmt.Sprintf(`%s IS NOT NULL AND (%s < $1 OR %s > $2)`, col, col, col)
		args = append(args, cond.Lower, cond.Upper)
	default:
		return nil, fmt.Errorf("unsupported condition op %d", cond.Op)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s`,
		pq.QuoteIdentifier(s.idColumn), s.qualifiedTable(), where)
	if scope.IsSelection() {
		query += fmt.Sprintf(` AND %s = ANY($%d)`, pq.QuoteIdentifier(s.idColumn), len(args)+1)
		args = append(args, pq.Array(recordIDs64(scope.IDs())))
	}
	query += fmt.Sprintf(` ORDER BY %s`, pq.QuoteIdentifier(s.idColumn))

	var raw []int64
	if err := s.db.SelectContext(ctx, &raw, query, args...); err != nil {
		return nil, fmt.Errorf("selection query failed: %w", err)
	}
	ids := make([]field.RecordID, len(raw))
	for i, id := range raw {
		ids[i] = field.RecordID(id)
	}
	return ids, nil
}

// columnStorage resolves one column's storage type, distinguishing a dropped
// column from a query failure so stale evidence maps to not-found.
func (s *LayerSourceImpl) columnStorage(ctx context.Context, column string) (field.StorageType, error) {
	var dataType string
	err := s.db.GetContext(ctx, &dataType, `
		SELECT data_type
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2 AND column_name = $3
	`, s.schema, s.table, column)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return field.StorageUnknown, core.NewFieldNotFoundError(column)
		}
		return field.StorageUnknown, err
	}
	return storageFromDataType(dataType), nil
}

func (s *LayerSourceImpl) qualifiedTable() string {
	return pq.QuoteIdentifier(s.schema) + "." + pq.QuoteIdentifier(s.table)
}

// valueFromSQL maps a scanned SQL value to the domain value taxonomy,
// honoring the column's declared storage for temporal kinds.
func valueFromSQL(raw interface{}, storage field.StorageType) field.Value {
	if raw == nil {
		return field.Null()
	}
	switch v := raw.(type) {
	case float64:
		return field.Number(v)
	case int64:
		return field.Number(float64(v))
	case bool:
		return field.Bool(v)
	case time.Time:
		if storage == field.StorageDate {
			return field.Date(v)
		}
		return field.DateTime(v)
	case []byte:
		return field.Text(string(v))
	case string:
		return field.Text(v)
	}
	return field.Text(fmt.Sprint(raw))
}

func recordIDs64(ids []field.RecordID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
