package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtline/tennis-ladder/storage"
)

type fakeUploader struct {
	lastKey         string
	lastContentType string
	lastBody        string
}

func (f *fakeUploader) Upload(_ context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	f.lastKey = key
	f.lastContentType = contentType
	f.lastBody = string(body)
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key, ETag: "abc"}, nil
}

func (f *fakeUploader) Delete(context.Context, string) error { return nil }

func (f *fakeUploader) GetPublicURL(key string) string { return "https://cdn.example.com/" + key }

func TestExportStandingsUploadsReport(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	season := e.seedSeason(t, true)
	e.seedPlayer(t, 1, "Ana")
	e.seedPlayer(t, 2, "Ben")
	for _, id := range []int{1, 2} {
		_, err := e.seasonService.AddPlayer(ctx, season.ID, id)
		require.NoError(t, err)
	}

	uploader := &fakeUploader{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewExportService(e.seasonService, uploader, logger)

	result, err := svc.ExportStandings(ctx, season.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Key, "standings/season-"), "key: %s", result.Key)
	assert.Contains(t, uploader.lastContentType, "text/plain")
	assert.Contains(t, uploader.lastBody, "Test Season standings")
	assert.Contains(t, uploader.lastBody, "1200")
}

func TestExportStandingsWithoutUploader(t *testing.T) {
	e := newEnv(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewExportService(e.seasonService, nil, logger)

	_, err := svc.ExportStandings(context.Background(), 1)
	assert.ErrorIs(t, err, ErrExportUnavailable)
}

func TestRenderStandingsIncludesEveryRow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	season := e.seedSeason(t, true)
	e.seedPlayer(t, 1, "Ana")
	_, err := e.seasonService.AddPlayer(ctx, season.ID, 1)
	require.NoError(t, err)

	standings, err := e.seasonService.Standings(ctx, season.ID)
	require.NoError(t, err)
	report := renderStandings(standings, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	assert.Contains(t, report, "as of 30 Aug 2026")
	assert.Contains(t, report, " 1. ")
}
