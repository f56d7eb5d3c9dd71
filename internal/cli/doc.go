// Package cli implements the command-line interface for the county scraper.
//
// The root command takes a single county key, runs the scrape pipeline for it and
// reports the appended row as text or JSON. The counties subcommand lists the registry.
// Configuration comes from an optional YAML file with flag overrides on top.
package cli
