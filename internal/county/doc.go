// Package county holds the registry of supported counties and their page extractors.
//
// Each county record binds a key (e.g. "san-francisco") to the public health page it is
// scraped from, the CSV file its history lives in, the display labels written into every
// row, and an Extractor that knows how to pull the case count, death count and update
// time out of that particular page layout. A key may be registered without a source or
// extractor to reserve it; such placeholder records are reported as unsupported.
package county
