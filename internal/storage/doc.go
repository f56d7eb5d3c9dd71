// Package storage provides CSV persistence for county historical tables.
//
// Each county's history is one CSV file with a fixed header (see table.Columns). Tables
// are read fully into memory and written back in full, overwriting the file. An optional
// atomic mode writes to a temporary file in the same directory and renames it over the
// original. Data paths are resolved relative to a data directory, which may start with "~/".
package storage
