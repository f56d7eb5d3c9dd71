package notifier

import (
	"fmt"
	"strings"

	"github.com/rickpr/data-covid19-sfbayarea/internal/table"
)

// Update is a county row ready to be announced
type Update struct {
	CountyKey string
	Row       table.Row
}

// Notifier defines the interface for announcing updates
type Notifier interface {
	Notify(u Update) error
}

// New returns the notifier for kind: "none" (or empty), "dry-run" or "twitter"
func New(kind string) (Notifier, error) {
	switch strings.ToLower(kind) {
	case "", "none":
		return nil, nil
	case "dry-run":
		return NewDryRunNotifier(), nil
	case "twitter":
		tw, err := NewTwitterNotifier()
		if err != nil {
			return nil, err
		}
		return tw, nil
	default:
		return nil, fmt.Errorf("invalid notifier: %s (must be 'none', 'dry-run' or 'twitter')", kind)
	}
}

// formatStatus formats an update as a status message
func formatStatus(u Update) string {
	row := u.Row

	var b strings.Builder
	fmt.Fprintf(&b, "COVID-19 update for %s County, %s (%s)\n\n", row.County, row.State, row.Date)
	fmt.Fprintf(&b, "Total cases: %s%s\n", valueOrNA(row.TotalPositiveCases), signed(row.NewDailyCases))
	fmt.Fprintf(&b, "Total deaths: %s%s\n", valueOrNA(row.TotalDeaths), signed(row.NewDailyDeaths))
	if row.TimeUpdated != "" {
		fmt.Fprintf(&b, "\nSource updated at %s\n", row.TimeUpdated)
	}
	b.WriteString("\n#COVID19 #" + hashtag(row.County))

	status := b.String()
	// Twitter limit is 280 characters
	if len(status) > 280 {
		status = status[:277] + "..."
	}
	return status
}

func valueOrNA(n table.NullInt) string {
	if !n.Valid {
		return "n/a"
	}
	return n.String()
}

func signed(delta table.NullInt) string {
	if !delta.Valid {
		return ""
	}
	return fmt.Sprintf(" (%+d)", delta.Int)
}

func hashtag(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
