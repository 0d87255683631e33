// Package rowmap converts routine result sets into caller-supplied Go
// values, using the sqlx db-tag conventions for struct destinations.
package rowmap

import (
	"database/sql"
	"reflect"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

// List scans every row into dest, which must be a pointer to a slice. Slice
// elements may be structs (matched by db tags), map[string]interface{}, or
// single-column scalars. Rows are appended in the order the database
// produced them.
func List(rows *sqlx.Rows, dest interface{}) error {
	value := reflect.ValueOf(dest)
	if value.Kind() != reflect.Ptr || value.IsNil() {
		return errors.Errorf("list destination must be a non-nil pointer, got %T", dest)
	}
	slice := value.Elem()
	if slice.Kind() != reflect.Slice {
		return errors.Errorf("list destination must point to a slice, got %T", dest)
	}

	elem := slice.Type().Elem()
	switch {
	case isStructDest(elem):
		return sqlx.StructScan(rows, dest)
	case isMapDest(elem):
		for rows.Next() {
			row := map[string]interface{}{}
			if err := rows.MapScan(row); err != nil {
				return err
			}
			normalizeRow(row)
			slice.Set(reflect.Append(slice, reflect.ValueOf(row)))
		}
		return rows.Err()
	default:
		for rows.Next() {
			element := reflect.New(elem)
			if err := rows.Scan(element.Interface()); err != nil {
				return err
			}
			slice.Set(reflect.Append(slice, element.Elem()))
		}
		return rows.Err()
	}
}

// One scans at most one row into dest, which must be a non-nil pointer. When
// the result set is empty dest is left untouched, so callers observe the
// destination type's zero value rather than an error. Rows past the first
// are discarded.
func One(rows *sqlx.Rows, dest interface{}) error {
	value := reflect.ValueOf(dest)
	if value.Kind() != reflect.Ptr || value.IsNil() {
		return errors.Errorf("destination must be a non-nil pointer, got %T", dest)
	}

	if !rows.Next() {
		return rows.Err()
	}

	elem := value.Type().Elem()
	switch {
	case isStructDest(elem):
		if err := rows.StructScan(dest); err != nil {
			return err
		}
	case isMapDest(elem):
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return err
		}
		normalizeRow(row)
		value.Elem().Set(reflect.ValueOf(row))
	default:
		if err := rows.Scan(dest); err != nil {
			return err
		}
	}

	return rows.Err()
}

// Discard drains the result set without scanning it. Draining matters:
// drivers may not step the underlying statement until rows are consumed, so
// a data-modifying call dispatched for its side effect would otherwise never
// run.
func Discard(rows *sqlx.Rows) error {
	for rows.Next() {
	}
	return rows.Err()
}

// isStructDest reports whether a destination element should be scanned field
// by field. Types with their own scanning behavior, like time.Time or
// sql.Scanner implementations, are treated as scalars.
func isStructDest(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == reflect.TypeOf(time.Time{}) {
		return false
	}
	return !reflect.PtrTo(t).Implements(scannerType)
}

// normalizeRow makes map destinations driver-agnostic: drivers like
// go-sqlite3 hand text columns back as []byte, which would serialize as
// base64. Valid UTF-8 byte values become strings, the rest stay raw.
func normalizeRow(row map[string]interface{}) {
	for column, value := range row {
		if raw, ok := value.([]byte); ok && utf8.Valid(raw) {
			row[column] = string(raw)
		}
	}
}

func isMapDest(t reflect.Type) bool {
	return t.Kind() == reflect.Map &&
		t.Key().Kind() == reflect.String &&
		t.Elem().Kind() == reflect.Interface
}
