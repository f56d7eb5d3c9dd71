// Package notifier announces a newly appended county row.
//
// Notifiers run after the row has been persisted. The Twitter notifier posts a short
// status with the totals and daily deltas; the dry-run notifier prints the same text.
package notifier
