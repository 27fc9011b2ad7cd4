package view

import (
	"testing"

	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouter_Defaults(t *testing.T) {
	r := NewRouter()
	assert.Equal(t, Workspace, r.Top())
	assert.Equal(t, WorkspaceDashboard, r.WorkspaceScreen())
	assert.Equal(t, AdminTaxonomy, r.AdminScreen())
	assert.True(t, r.ChromeVisible())
	assert.Zero(t, r.DocumentID())
}

func TestOpenAndCloseReader(t *testing.T) {
	r := NewRouter()
	require.NoError(t, r.ShowCategory(4))

	require.NoError(t, r.OpenReader(7))
	assert.Equal(t, Reader, r.Top())
	assert.Equal(t, int64(7), r.DocumentID())
	assert.False(t, r.ChromeVisible())

	r.CloseReader()
	assert.Equal(t, Workspace, r.Top())
	assert.Equal(t, WorkspaceDashboard, r.WorkspaceScreen())
	assert.Zero(t, r.DocumentID())
	assert.Zero(t, r.CategoryID())
	assert.True(t, r.ChromeVisible())
}

func TestOpenReader_RejectsNonPositiveID(t *testing.T) {
	r := NewRouter()
	require.ErrorIs(t, r.OpenReader(0), common.ErrorValidation)
	require.ErrorIs(t, r.OpenReader(-3), common.ErrorValidation)
	assert.Equal(t, Workspace, r.Top())
}

func TestCloseReader_FromAdminOrigin(t *testing.T) {
	r := NewRouter()
	r.ShowAdmin(AdminDocuments)
	require.NoError(t, r.OpenReader(2))
	r.CloseReader()
	assert.Equal(t, Workspace, r.Top())
	assert.Equal(t, WorkspaceDashboard, r.WorkspaceScreen())
}

func TestWorkspaceNavigation(t *testing.T) {
	r := NewRouter()

	require.NoError(t, r.ShowWorkspace(DocumentLibrary))
	assert.Equal(t, DocumentLibrary, r.WorkspaceScreen())

	require.ErrorIs(t, r.ShowWorkspace(CategoryView), common.ErrorValidation)
	require.ErrorIs(t, r.ShowCategory(0), common.ErrorValidation)

	require.NoError(t, r.ShowCategory(3))
	assert.Equal(t, CategoryView, r.WorkspaceScreen())
	assert.Equal(t, int64(3), r.CategoryID())

	require.NoError(t, r.ShowWorkspace(WorkspaceDashboard))
	assert.Zero(t, r.CategoryID())
}

func TestAdminNavigationKeepsSubscreen(t *testing.T) {
	r := NewRouter()
	r.ShowAdmin(AdminUsers)
	assert.True(t, r.AdminScreen().Placeholder())
	assert.False(t, AdminTaxonomy.Placeholder())

	require.NoError(t, r.ShowWorkspace(DocumentLibrary))
	assert.Equal(t, AdminUsers, r.AdminScreen())

	r.Reset()
	assert.Equal(t, AdminTaxonomy, r.AdminScreen())
	assert.Equal(t, Workspace, r.Top())
}

func TestParseAdminScreen(t *testing.T) {
	for s, name := range adminNames {
		got, err := ParseAdminScreen(name)
		require.NoError(t, err)
		assert.Equal(t, s, got)
		assert.Equal(t, name, s.String())
	}
	_, err := ParseAdminScreen("billing")
	require.ErrorIs(t, err, common.ErrorValidation)
}
