// Package table models a county's historical case log and builds each day's new row.
//
// A Table is the ordered, append-only list of daily observations for one county. Each
// run computes the day-over-day deltas against the last stored row and appends a single
// new Row; rows already in the table are never modified or reordered.
package table
