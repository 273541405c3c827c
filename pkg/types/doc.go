// Package types defines the record, view, store and sink contracts shared by
// the tabula packages, together with their sentinel errors.
//
// The view engine itself lives in pkg/tableview; the SQLite dataset store in
// internal/sqlite. Both speak only in terms of the types declared here.
package types
