package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/ehs-honor/honor-site-api/pkg/errors"
)

func TestLandingPageIsPublic(t *testing.T) {
	svc := NewContentService()

	page, err := svc.Page("landing", false)
	require.NoError(t, err)
	assert.NotEmpty(t, page.Sections)
}

func TestGatedPagesRequireAuth(t *testing.T) {
	svc := NewContentService()

	for _, id := range []string{"rules", "caseStudies", "resources"} {
		_, err := svc.Page(id, false)
		require.Error(t, err, id)
		assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

		page, err := svc.Page(id, true)
		require.NoError(t, err, id)
		assert.NotEmpty(t, page.Sections)
	}
}

func TestUnknownPage(t *testing.T) {
	svc := NewContentService()

	_, err := svc.Page("archive", true)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
