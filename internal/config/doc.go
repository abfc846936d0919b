// Package config loads, validates, and normalizes bindery's TOML
// configuration.
//
// Configuration covers the pipeline directories, the constant listing-policy
// fields stamped onto every workbook row, the approved condition enumeration
// enforced at join time, and batch behavior such as the duplicate-row conflict
// policy. Defaults mirror the production listing setup so a fresh install only
// needs paths pointed at real data.
package config
