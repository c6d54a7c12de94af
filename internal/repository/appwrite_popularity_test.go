package repository

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/moviefinder/internal/appwrite"
	"github.com/user/moviefinder/internal/appwrite/appwritetest"
	"github.com/user/moviefinder/internal/config"
	"github.com/user/moviefinder/internal/model"
)

func newAppwriteRepo(t *testing.T) (*AppwritePopularityRepository, *appwritetest.Server) {
	t.Helper()
	server := appwritetest.NewServer("proj")
	t.Cleanup(server.Close)
	client := appwrite.NewClient(config.AppwriteConfig{Endpoint: server.URL, ProjectID: "proj"}, zerolog.Nop())
	return NewAppwritePopularityRepository(client, "db", "searches"), server
}

func TestAppwritePopularityRepository_DocumentFields(t *testing.T) {
	ctx := context.Background()
	repo, server := newAppwriteRepo(t)

	rec := &model.PopularityRecord{SearchTerm: "batman", Count: 1, MovieID: 268, PosterURL: "https://img/b.jpg"}
	require.NoError(t, repo.Create(ctx, rec))
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	docs := server.Documents("db", "searches")
	require.Len(t, docs, 1)
	assert.Equal(t, "batman", docs[0]["searchTerm"])
	assert.EqualValues(t, 268, docs[0]["movie_id"])
	assert.Equal(t, "https://img/b.jpg", docs[0]["poster_url"])

	require.NoError(t, repo.UpdateCount(ctx, rec.ID, 4))
	found, err := repo.FindByTerm(ctx, "batman")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, rec.ID, found.ID)
	assert.Equal(t, 4, found.Count)

	missing, err := repo.FindByTerm(ctx, "robin")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAppwritePopularityRepository_Errors(t *testing.T) {
	ctx := context.Background()
	repo, server := newAppwriteRepo(t)

	err := repo.UpdateCount(ctx, "missing", 2)
	var apiErr *appwrite.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	server.FailStatus(http.StatusInternalServerError)
	_, err = repo.ListTop(ctx, 5)
	assert.Error(t, err)
}

func TestAppwritePopularityRepository_ListTopTiesByCreation(t *testing.T) {
	ctx := context.Background()
	repo, _ := newAppwriteRepo(t)
	for _, rec := range []*model.PopularityRecord{
		{SearchTerm: "a", Count: 2},
		{SearchTerm: "b", Count: 2},
		{SearchTerm: "c", Count: 3},
		{SearchTerm: "d", Count: 2},
	} {
		require.NoError(t, repo.Create(ctx, rec))
	}

	top, err := repo.ListTop(ctx, 3)
	require.NoError(t, err)
	terms := make([]string, len(top))
	for i, r := range top {
		terms[i] = r.SearchTerm
	}
	assert.Equal(t, []string{"c", "a", "b"}, terms)
}
