package county

import (
	"errors"
	"fmt"
	"sort"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrUnknownCounty is returned when a key is not present in the registry
	ErrUnknownCounty = errors.New("unknown county")
	// ErrUnsupportedCounty is returned for placeholder records with no source or extractor
	ErrUnsupportedCounty = errors.New("unsupported county")
	// ErrExtraction is returned when a required field cannot be found on the page
	ErrExtraction = errors.New("extraction failed")
)

// Fields are the values pulled from one fetch of a county page
type Fields struct {
	TotalCases  int    `json:"total_cases"`
	TotalDeaths int    `json:"total_deaths"`
	TimeUpdated string `json:"time_updated"` // as stated on the page, e.g. "2:30 PM"
}

// Extractor parses a county page into Fields
type Extractor interface {
	Extract(doc *goquery.Document) (Fields, error)
}

// Record describes how to fetch and store one county's data
type Record struct {
	Key       string
	SourceURL string
	DataPath  string
	Extractor Extractor
	City      string
	County    string
}

// Supported reports whether the record carries everything needed to run a scrape
func (r Record) Supported() bool {
	return r.SourceURL != "" && r.DataPath != "" && r.Extractor != nil
}

// Validate returns ErrUnsupportedCounty for placeholder records
func (r Record) Validate() error {
	if !r.Supported() {
		return fmt.Errorf("%w: %s", ErrUnsupportedCounty, r.Key)
	}
	return nil
}

// Registry maps county keys to records
type Registry struct {
	records map[string]Record
}

// NewRegistry creates a registry from the given records, keyed by Record.Key
func NewRegistry(records ...Record) *Registry {
	r := &Registry{records: make(map[string]Record, len(records))}
	for _, rec := range records {
		r.records[rec.Key] = rec
	}
	return r
}

// Default returns the registry of Bay Area counties known to the scraper
func Default() *Registry {
	return NewRegistry(
		Record{
			Key:       "san-francisco",
			SourceURL: SanFranciscoURL,
			DataPath:  "data/covid_19_sf.csv",
			Extractor: SanFrancisco{},
			City:      "San Francisco",
			County:    "San Francisco",
		},
		Record{Key: "santa-clara"},
	)
}

// Lookup returns the record for key
func (r *Registry) Lookup(key string) (Record, error) {
	rec, ok := r.records[key]
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownCounty, key)
	}
	return rec, nil
}

// Keys returns all registered keys in sorted order
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.records))
	for k := range r.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Override replaces the source URL and/or data path of an existing record.
// Empty values leave the current setting untouched.
func (r *Registry) Override(key, sourceURL, dataPath string) error {
	rec, err := r.Lookup(key)
	if err != nil {
		return err
	}
	if sourceURL != "" {
		rec.SourceURL = sourceURL
	}
	if dataPath != "" {
		rec.DataPath = dataPath
	}
	r.records[key] = rec
	return nil
}
