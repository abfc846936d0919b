// Package workbook persists listings as an ordered, appendable spreadsheet
// with a fixed File Exchange column schema.
//
// Exactly one workbook is "current" at any time, recorded by an explicit
// pointer file rather than inferred from modification times. Appends stage the
// whole workbook to a temporary file and rename it into place, so interrupted
// writes never corrupt or truncate the persisted table.
package workbook
