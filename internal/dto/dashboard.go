package dto

// Dashboard tab identifiers, matching the four committee views.
const (
	TabQuestions    = "questions"
	TabFeedback     = "feedback"
	TabHelpRequests = "help"
	TabReports      = "reports"
)

// ValidTab reports whether tab names a committee dashboard tab.
func ValidTab(tab string) bool {
	switch tab {
	case TabQuestions, TabFeedback, TabHelpRequests, TabReports:
		return true
	}
	return false
}

// Export format identifiers.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)
