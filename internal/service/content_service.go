package service

import (
	"github.com/ehs-honor/honor-site-api/internal/models"
	appErrors "github.com/ehs-honor/honor-site-api/pkg/errors"
)

// ContentService serves the static informational pages. The landing page is
// public; everything else requires an authenticated caller.
type ContentService struct {
	pages map[string]models.ContentPage
}

// NewContentService builds the service with the built-in page set.
func NewContentService() *ContentService {
	pages := make(map[string]models.ContentPage, len(staticPages))
	for _, p := range staticPages {
		pages[p.ID] = p
	}
	return &ContentService{pages: pages}
}

// Page returns a single page by id. Non-public pages require authenticated to
// be true.
func (s *ContentService) Page(id string, authenticated bool) (*models.ContentPage, error) {
	page, ok := s.pages[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "page not found")
	}
	if !page.Public && !authenticated {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to view this page")
	}
	return &page, nil
}

var staticPages = []models.ContentPage{
	{
		ID:     "landing",
		Title:  "The Honor Code",
		Public: true,
		Sections: []models.ContentSection{
			{
				Body: "I will not lie, cheat, or steal, and I will report any such violations of the Honor Code.",
			},
			{
				Heading: "A Community of Trust",
				Body:    "The Honor Code is the foundation of our community. It allows students and faculty to trust one another, to leave belongings unattended, and to take one another at their word.",
			},
		},
	},
	{
		ID:    "rules",
		Title: "Rules and Expectations",
		Sections: []models.ContentSection{
			{
				Heading: "Lying",
				Body:    "Any intentional misrepresentation of the truth, spoken or written, made to a member of the community.",
			},
			{
				Heading: "Cheating",
				Body:    "Giving or receiving unauthorized aid on any assignment, quiz, test, or exam, including representing another's work as your own.",
			},
			{
				Heading: "Stealing",
				Body:    "Taking or using another person's property without permission.",
			},
			{
				Heading: "Reporting",
				Body:    "Every student shares the obligation to report violations. Reports are reviewed confidentially by the Honor Committee.",
			},
		},
	},
	{
		ID:    "caseStudies",
		Title: "Case Studies",
		Sections: []models.ContentSection{
			{
				Heading: "Unauthorized Collaboration",
				Body:    "Two students complete a take-home assessment together after the teacher stated the work must be individual. Both students are responsible under the code, regardless of who initiated the collaboration.",
			},
			{
				Heading: "Borrowed Work",
				Body:    "A student submits a paper containing paragraphs copied from an online source without citation. Intent does not excuse the violation; proper attribution is always required.",
			},
			{
				Heading: "Witnessing a Violation",
				Body:    "A student sees a classmate photographing an exam. Speaking with the classmate and encouraging self-reporting is a first step, but the obligation to report remains.",
			},
		},
	},
	{
		ID:    "resources",
		Title: "Resources",
		Sections: []models.ContentSection{
			{
				Heading: "Talk to Someone",
				Body:    "Your advisor, the committee chair, and any faculty representative are available to discuss concerns in confidence.",
			},
			{
				Heading: "Anonymous Options",
				Body:    "Use the report form on this site if you prefer to put a concern in writing. Help requests can be submitted for general questions about the process.",
			},
		},
	},
}
