package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/courtline/tennis-ladder/storage"
)

// ExportService renders the season standings as a share-ready text snapshot
// and publishes it to object storage. Captains paste the public link into the
// club group chat.
type ExportService interface {
	ExportStandings(ctx context.Context, seasonID int) (*storage.UploadResult, error)
}

type exportService struct {
	seasons  SeasonService
	uploader storage.FileUploader
	logger   *slog.Logger
	now      func() time.Time
}

func NewExportService(seasons SeasonService, uploader storage.FileUploader, logger *slog.Logger) ExportService {
	return &exportService{
		seasons:  seasons,
		uploader: uploader,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *exportService) ExportStandings(ctx context.Context, seasonID int) (*storage.UploadResult, error) {
	if s.uploader == nil {
		return nil, ErrExportUnavailable
	}

	standings, err := s.seasons.Standings(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	report := renderStandings(standings, s.now().UTC())
	key := fmt.Sprintf("standings/season-%d/%s.txt", seasonID, s.now().UTC().Format("2006-01-02T15-04-05"))

	result, err := s.uploader.Upload(ctx, key, "text/plain; charset=utf-8", strings.NewReader(report))
	if err != nil {
		return nil, fmt.Errorf("uploading standings export: %w", err)
	}

	s.logger.Info("standings exported",
		slog.Int("season_id", seasonID),
		slog.String("key", result.Key),
		slog.String("location", result.Location))
	return result, nil
}

func renderStandings(standings *SeasonStandings, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s standings\n", standings.Season.Name)
	fmt.Fprintf(&b, "as of %s, %d match nights\n\n", at.Format("2 Jan 2006"), standings.MatchesTotal)
	for _, row := range standings.Rows {
		name := fmt.Sprintf("player %d", row.PlayerID)
		if row.Player != nil {
			name = row.Player.Name
		}
		fmt.Fprintf(&b, "%2d. %-24s %4d  (%d-%d games, %.0f%%)\n",
			row.Position, name, row.EloRating,
			row.GamesWon, row.GamesPlayed-row.GamesWon, row.WinRate*100)
	}
	return b.String()
}
