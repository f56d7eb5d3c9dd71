package notifier

import (
	"fmt"
	"io"
	"os"
)

// DryRunNotifier prints what would be posted without posting it
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a dry-run notifier writing to stdout
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{out: os.Stdout}
}

// Notify prints the status that would be posted
func (n *DryRunNotifier) Notify(u Update) error {
	status := formatStatus(u)
	fmt.Fprintf(n.out, "--- Status for %s ---\n", u.CountyKey)
	fmt.Fprintln(n.out, status)
	fmt.Fprintf(n.out, "\n(Length: %d characters)\n", len(status))
	return nil
}
