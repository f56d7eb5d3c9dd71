// Package scraper fetches county public health pages and parses them into HTML documents.
//
// A single GET is made per run. The response body is decoded to UTF-8 according to its
// Content-Type (or a <meta charset> sniff) and handed to goquery, so county extractors
// can search the rendered text without caring about the page encoding. Network errors
// and non-200 responses are reported as ErrFetch; nothing is retried.
package scraper
