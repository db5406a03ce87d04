package components

import "fmt"

// SummaryData aggregates the outcome of a convergence run for rendering.
type SummaryData struct {
	Message   string
	Err       error
	Cancelled bool
}

// Summary renders a one-line run summary.
type Summary struct {
	data SummaryData
}

// NewSummary creates a new Summary component.
func NewSummary(data SummaryData) Summary {
	return Summary{data: data}
}

// View renders the summary.
func (s Summary) View() string {
	switch {
	case s.data.Cancelled:
		return "cancelled"
	case s.data.Err != nil:
		return fmt.Sprintf("failed: %v", s.data.Err)
	default:
		return s.data.Message
	}
}
