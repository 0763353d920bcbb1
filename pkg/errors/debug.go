package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump flattens an error chain for structured logging. DB fields are
// filled from whichever driver produced the failure.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	DBDriver     string `json:"db_driver,omitempty"`
	DBCode       string `json:"db_code,omitempty"`
	DBConstraint string `json:"db_constraint,omitempty"`
	DBTable      string `json:"db_table,omitempty"`
	DBColumn     string `json:"db_column,omitempty"`
	DBDetail     string `json:"db_detail,omitempty"`
	DBMessage    string `json:"db_message,omitempty"`
}

// Fields returns the non-empty dump values keyed for logger.WithFields.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{"error": d.TopMessage}
	add := func(k, v string) {
		if v != "" {
			fields[k] = v
		}
	}
	add("error_code", string(d.Code))
	add("db_driver", d.DBDriver)
	add("db_code", d.DBCode)
	add("db_constraint", d.DBConstraint)
	add("db_table", d.DBTable)
	add("db_column", d.DBColumn)
	add("db_detail", d.DBDetail)
	add("db_message", d.DBMessage)
	if len(d.Chain) > 0 {
		fields["error_chain"] = d.Chain
	}
	return fields
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.DBDriver = "pgx"
		d.DBCode = pgxErr.Code
		d.DBConstraint = pgxErr.ConstraintName
		d.DBTable = pgxErr.TableName
		d.DBColumn = pgxErr.ColumnName
		d.DBDetail = pgxErr.Detail
		d.DBMessage = pgxErr.Message
		return d
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.DBDriver = "pq"
		d.DBCode = string(pqErr.Code)
		d.DBConstraint = pqErr.Constraint
		d.DBTable = pqErr.Table
		d.DBColumn = pqErr.Column
		d.DBDetail = pqErr.Detail
		d.DBMessage = pqErr.Message
		return d
	}

	dumpSQLite(&d)
	return d
}

// sqlite reports constraint failures only as text, e.g.
// "UNIQUE constraint failed: favorite_items.user_id, favorite_items.product_id".
func dumpSQLite(d *ErrorDump) {
	for _, link := range d.Chain {
		kind, cols, ok := strings.Cut(link, " constraint failed: ")
		if !ok {
			continue
		}
		if i := strings.LastIndex(kind, " "); i >= 0 {
			kind = kind[i+1:]
		}
		first, _, _ := strings.Cut(cols, ",")
		table, column, _ := strings.Cut(strings.TrimSpace(first), ".")
		d.DBDriver = "sqlite"
		d.DBCode = strings.ToUpper(kind)
		d.DBTable = table
		d.DBColumn = column
		d.DBMessage = strings.TrimSpace(kind + " constraint failed: " + cols)
		return
	}
}
