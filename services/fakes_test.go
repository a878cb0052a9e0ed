package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/courtline/tennis-ladder/live"
	"github.com/courtline/tennis-ladder/models"
	"github.com/courtline/tennis-ladder/repositories"
)

// newTestDB hands the services a real *sql.DB whose transactions are no-ops;
// all data access in tests goes through the in-memory fakes below.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := sql.OpenDB(nopConnector{})
	t.Cleanup(func() { db.Close() })
	return db
}

// nopConnector backs newTestDB with connections that begin any number of
// transactions and do nothing on commit or rollback. The services only use
// the handle to scope their writes; no statement ever reaches the driver.
type nopConnector struct{}

func (nopConnector) Connect(context.Context) (driver.Conn, error) { return nopConn{}, nil }
func (nopConnector) Driver() driver.Driver                        { return nopDriver{} }

type nopDriver struct{}

func (nopDriver) Open(string) (driver.Conn, error) { return nopConn{}, nil }

type nopConn struct{}

func (nopConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("test db does not execute statements")
}
func (nopConn) Close() error              { return nil }
func (nopConn) Begin() (driver.Tx, error) { return nopTx{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

var (
	_ repositories.SeasonRepository       = (*fakeSeasonRepo)(nil)
	_ repositories.MatchRepository        = (*fakeMatchRepo)(nil)
	_ repositories.FixtureRepository      = (*fakeFixtureRepo)(nil)
	_ repositories.PlayerRepository       = (*fakePlayerRepo)(nil)
	_ repositories.SeasonPlayerRepository = (*fakeSeasonPlayerRepo)(nil)
	_ repositories.ResultRepository       = (*fakeResultRepo)(nil)
	_ repositories.ConflictRepository     = (*fakeConflictRepo)(nil)
	_ repositories.ChallengeRepository    = (*fakeChallengeRepo)(nil)
	_ repositories.EloHistoryRepository   = (*fakeHistoryRepo)(nil)
)

type fakeSeasonRepo struct {
	nextID  int
	seasons map[int]*models.Season
}

func newFakeSeasonRepo() *fakeSeasonRepo {
	return &fakeSeasonRepo{seasons: make(map[int]*models.Season)}
}

func (f *fakeSeasonRepo) Create(_ context.Context, season *models.Season) error {
	for _, existing := range f.seasons {
		if existing.Name == season.Name {
			return repositories.ErrSeasonNameConflict
		}
	}
	f.nextID++
	season.ID = f.nextID
	season.CreatedAt = time.Now()
	f.seasons[season.ID] = season
	return nil
}

func (f *fakeSeasonRepo) GetByID(_ context.Context, id int) (*models.Season, error) {
	season, ok := f.seasons[id]
	if !ok {
		return nil, repositories.ErrSeasonNotFound
	}
	copied := *season
	return &copied, nil
}

func (f *fakeSeasonRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.SeasonStatus) error {
	season, ok := f.seasons[id]
	if !ok {
		return repositories.ErrSeasonNotFound
	}
	season.Status = status
	return nil
}

func (f *fakeSeasonRepo) CompareAndSwapStatus(_ context.Context, id int, from, to models.SeasonStatus) (bool, error) {
	season, ok := f.seasons[id]
	if !ok {
		return false, nil
	}
	if season.Status != from {
		return false, nil
	}
	season.Status = to
	return true, nil
}

type fakeMatchRepo struct {
	nextID  int
	matches map[int]*models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match)}
}

func (f *fakeMatchRepo) Create(_ context.Context, match *models.Match) error {
	f.nextID++
	match.ID = f.nextID
	match.CreatedAt = time.Now()
	f.matches[match.ID] = match
	return nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	match, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (f *fakeMatchRepo) ListBySeason(_ context.Context, seasonID int) ([]*models.Match, error) {
	var matches []*models.Match
	for _, match := range f.matches {
		if match.SeasonID == seasonID {
			copied := *match
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].MatchDate.Equal(matches[j].MatchDate) {
			return matches[i].MatchDate.Before(matches[j].MatchDate)
		}
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}

func (f *fakeMatchRepo) CountBySeason(_ context.Context, seasonID int) (int, error) {
	count := 0
	for _, match := range f.matches {
		if match.SeasonID == seasonID {
			count++
		}
	}
	return count, nil
}

func (f *fakeMatchRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.MatchStatus) error {
	match, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.Status = status
	return nil
}

type fakeFixtureRepo struct {
	nextID   int
	fixtures map[int]*models.Fixture
}

func newFakeFixtureRepo() *fakeFixtureRepo {
	return &fakeFixtureRepo{fixtures: make(map[int]*models.Fixture)}
}

func (f *fakeFixtureRepo) BatchCreate(_ context.Context, _ repositories.SQLExecutor, fixtures []*models.Fixture) error {
	for _, fixture := range fixtures {
		f.nextID++
		fixture.ID = f.nextID
		fixture.CreatedAt = time.Now()
		f.fixtures[fixture.ID] = fixture
	}
	return nil
}

func (f *fakeFixtureRepo) GetByID(_ context.Context, id int) (*models.Fixture, error) {
	fixture, ok := f.fixtures[id]
	if !ok {
		return nil, repositories.ErrFixtureNotFound
	}
	copied := *fixture
	return &copied, nil
}

func (f *fakeFixtureRepo) ListByMatch(_ context.Context, matchID int) ([]*models.Fixture, error) {
	var fixtures []*models.Fixture
	for _, fixture := range f.fixtures {
		if fixture.MatchID == matchID {
			copied := *fixture
			fixtures = append(fixtures, &copied)
		}
	}
	sort.Slice(fixtures, func(i, j int) bool {
		if fixtures[i].CourtNumber != fixtures[j].CourtNumber {
			return fixtures[i].CourtNumber < fixtures[j].CourtNumber
		}
		return fixtures[i].GameNumber < fixtures[j].GameNumber
	})
	return fixtures, nil
}

func (f *fakeFixtureRepo) ExistsForMatch(_ context.Context, matchID int) (bool, error) {
	for _, fixture := range f.fixtures {
		if fixture.MatchID == matchID {
			return true, nil
		}
	}
	return false, nil
}

type fakePlayerRepo struct {
	players map[int]*models.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[int]*models.Player)}
}

func (f *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	player, ok := f.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (f *fakePlayerRepo) ListLadder(_ context.Context) ([]*models.Player, error) {
	var players []*models.Player
	for _, player := range f.players {
		if player.InLadder && player.Status == models.PlayerStatusApproved {
			copied := *player
			players = append(players, &copied)
		}
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

func (f *fakePlayerRepo) UpdateEloRating(_ context.Context, _ repositories.SQLExecutor, id int, rating int) error {
	player, ok := f.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.EloRating = rating
	return nil
}

type fakeSeasonPlayerRepo struct {
	nextID        int
	seasonPlayers map[int]*models.SeasonPlayer
}

func newFakeSeasonPlayerRepo() *fakeSeasonPlayerRepo {
	return &fakeSeasonPlayerRepo{seasonPlayers: make(map[int]*models.SeasonPlayer)}
}

func (f *fakeSeasonPlayerRepo) find(seasonID, playerID int) *models.SeasonPlayer {
	for _, sp := range f.seasonPlayers {
		if sp.SeasonID == seasonID && sp.PlayerID == playerID {
			return sp
		}
	}
	return nil
}

func (f *fakeSeasonPlayerRepo) Create(_ context.Context, seasonPlayer *models.SeasonPlayer) error {
	if f.find(seasonPlayer.SeasonID, seasonPlayer.PlayerID) != nil {
		return repositories.ErrSeasonPlayerConflict
	}
	f.nextID++
	seasonPlayer.ID = f.nextID
	seasonPlayer.CreatedAt = time.Now()
	f.seasonPlayers[seasonPlayer.ID] = seasonPlayer
	return nil
}

func (f *fakeSeasonPlayerRepo) GetBySeasonAndPlayer(_ context.Context, _ repositories.SQLExecutor, seasonID, playerID int) (*models.SeasonPlayer, error) {
	sp := f.find(seasonID, playerID)
	if sp == nil {
		return nil, repositories.ErrSeasonPlayerNotFound
	}
	copied := *sp
	return &copied, nil
}

func (f *fakeSeasonPlayerRepo) GetOrCreate(ctx context.Context, exec repositories.SQLExecutor, seasonID, playerID, initialRating int) (*models.SeasonPlayer, error) {
	if sp := f.find(seasonID, playerID); sp != nil {
		copied := *sp
		return &copied, nil
	}
	sp := &models.SeasonPlayer{SeasonID: seasonID, PlayerID: playerID, EloRating: initialRating}
	if err := f.Create(ctx, sp); err != nil {
		return nil, err
	}
	copied := *sp
	return &copied, nil
}

func (f *fakeSeasonPlayerRepo) ListBySeason(_ context.Context, seasonID int) ([]*models.SeasonPlayer, error) {
	var seasonPlayers []*models.SeasonPlayer
	for _, sp := range f.seasonPlayers {
		if sp.SeasonID == seasonID {
			copied := *sp
			seasonPlayers = append(seasonPlayers, &copied)
		}
	}
	sort.Slice(seasonPlayers, func(i, j int) bool {
		if seasonPlayers[i].EloRating != seasonPlayers[j].EloRating {
			return seasonPlayers[i].EloRating > seasonPlayers[j].EloRating
		}
		return seasonPlayers[i].PlayerID < seasonPlayers[j].PlayerID
	})
	return seasonPlayers, nil
}

func (f *fakeSeasonPlayerRepo) UpdateRating(_ context.Context, _ repositories.SQLExecutor, id int, rating int) error {
	sp, ok := f.seasonPlayers[id]
	if !ok {
		return repositories.ErrSeasonPlayerNotFound
	}
	sp.EloRating = rating
	return nil
}

func (f *fakeSeasonPlayerRepo) ResetRatings(_ context.Context, _ repositories.SQLExecutor, seasonID, rating int) error {
	for _, sp := range f.seasonPlayers {
		if sp.SeasonID == seasonID {
			sp.EloRating = rating
		}
	}
	return nil
}

func (f *fakeSeasonPlayerRepo) IncrementStats(_ context.Context, _ repositories.SQLExecutor, id int, wonMatch bool, gamesWon, gamesLost int) error {
	sp, ok := f.seasonPlayers[id]
	if !ok {
		return repositories.ErrSeasonPlayerNotFound
	}
	sp.MatchesPlayed++
	if wonMatch {
		sp.MatchesWon++
	}
	sp.GamesPlayed += gamesWon + gamesLost
	sp.GamesWon += gamesWon
	return nil
}

func (f *fakeSeasonPlayerRepo) AdjustStats(_ context.Context, _ repositories.SQLExecutor, id int, matchesWonDelta, gamesWonDelta, gamesLostDelta int) error {
	sp, ok := f.seasonPlayers[id]
	if !ok {
		return repositories.ErrSeasonPlayerNotFound
	}
	sp.MatchesWon += matchesWonDelta
	sp.GamesPlayed += gamesWonDelta + gamesLostDelta
	sp.GamesWon += gamesWonDelta
	return nil
}

type fakeResultRepo struct {
	nextID  int
	results map[int]*models.Result

	fixtures *fakeFixtureRepo
	matches  *fakeMatchRepo

	// raceWinner, when set, simulates a concurrent submitter committing
	// first: the next Create stores it and fails with the constraint error.
	raceWinner *models.Result
}

func newFakeResultRepo(fixtures *fakeFixtureRepo, matches *fakeMatchRepo) *fakeResultRepo {
	return &fakeResultRepo{results: make(map[int]*models.Result), fixtures: fixtures, matches: matches}
}

func (f *fakeResultRepo) insert(result *models.Result) {
	f.nextID++
	result.ID = f.nextID
	result.CreatedAt = time.Now()
	f.results[result.ID] = result
}

func (f *fakeResultRepo) Create(_ context.Context, _ repositories.SQLExecutor, result *models.Result) error {
	if f.raceWinner != nil {
		winner := f.raceWinner
		f.raceWinner = nil
		f.insert(winner)
		return repositories.ErrResultAlreadyRecorded
	}
	if result.Verified {
		for _, existing := range f.results {
			if existing.FixtureID == result.FixtureID && existing.Verified {
				return repositories.ErrResultAlreadyRecorded
			}
		}
	}
	f.insert(result)
	return nil
}

func (f *fakeResultRepo) GetByID(_ context.Context, id int) (*models.Result, error) {
	result, ok := f.results[id]
	if !ok {
		return nil, repositories.ErrResultNotFound
	}
	copied := *result
	return &copied, nil
}

func (f *fakeResultRepo) GetVerifiedByFixture(_ context.Context, fixtureID int) (*models.Result, error) {
	for _, result := range f.results {
		if result.FixtureID == fixtureID && result.Verified {
			copied := *result
			return &copied, nil
		}
	}
	return nil, repositories.ErrResultNotFound
}

func (f *fakeResultRepo) Unverify(_ context.Context, _ repositories.SQLExecutor, id int) error {
	result, ok := f.results[id]
	if !ok {
		return repositories.ErrResultNotFound
	}
	result.Verified = false
	return nil
}

func (f *fakeResultRepo) ListVerifiedBySeason(ctx context.Context, seasonID int) ([]*models.FixtureScore, error) {
	var scores []*models.FixtureScore
	for _, result := range f.results {
		if !result.Verified {
			continue
		}
		fixture, err := f.fixtures.GetByID(ctx, result.FixtureID)
		if err != nil {
			continue
		}
		match, err := f.matches.GetByID(ctx, fixture.MatchID)
		if err != nil || match.SeasonID != seasonID {
			continue
		}
		scores = append(scores, &models.FixtureScore{
			FixtureID:  result.FixtureID,
			MatchID:    match.ID,
			MatchDate:  match.MatchDate,
			Pair1Score: result.Pair1Score,
			Pair2Score: result.Pair2Score,
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		if !scores[i].MatchDate.Equal(scores[j].MatchDate) {
			return scores[i].MatchDate.Before(scores[j].MatchDate)
		}
		if scores[i].MatchID != scores[j].MatchID {
			return scores[i].MatchID < scores[j].MatchID
		}
		return scores[i].FixtureID < scores[j].FixtureID
	})
	return scores, nil
}

type fakeConflictRepo struct {
	nextID    int
	conflicts map[int]*models.Conflict
}

func newFakeConflictRepo() *fakeConflictRepo {
	return &fakeConflictRepo{conflicts: make(map[int]*models.Conflict)}
}

func (f *fakeConflictRepo) Create(_ context.Context, conflict *models.Conflict) error {
	f.nextID++
	conflict.ID = f.nextID
	conflict.CreatedAt = time.Now()
	f.conflicts[conflict.ID] = conflict
	return nil
}

func (f *fakeConflictRepo) GetByID(_ context.Context, id int) (*models.Conflict, error) {
	conflict, ok := f.conflicts[id]
	if !ok {
		return nil, repositories.ErrConflictNotFound
	}
	copied := *conflict
	return &copied, nil
}

func (f *fakeConflictRepo) ListByFixture(_ context.Context, fixtureID int) ([]*models.Conflict, error) {
	var conflicts []*models.Conflict
	for _, conflict := range f.conflicts {
		if conflict.FixtureID == fixtureID {
			copied := *conflict
			conflicts = append(conflicts, &copied)
		}
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].ID < conflicts[j].ID })
	return conflicts, nil
}

type fakeChallengeRepo struct {
	nextID     int
	challenges map[int]*models.Challenge
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: make(map[int]*models.Challenge)}
}

func (f *fakeChallengeRepo) Create(_ context.Context, challenge *models.Challenge) error {
	f.nextID++
	challenge.ID = f.nextID
	challenge.CreatedAt = time.Now()
	f.challenges[challenge.ID] = challenge
	return nil
}

func (f *fakeChallengeRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Challenge, error) {
	challenge, ok := f.challenges[id]
	if !ok {
		return nil, repositories.ErrChallengeNotFound
	}
	copied := *challenge
	return &copied, nil
}

func (f *fakeChallengeRepo) ListByStatus(_ context.Context, status models.ChallengeStatus) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	for _, challenge := range f.challenges {
		if challenge.Status == status {
			copied := *challenge
			challenges = append(challenges, &copied)
		}
	}
	sort.Slice(challenges, func(i, j int) bool { return challenges[i].ID < challenges[j].ID })
	return challenges, nil
}

func (f *fakeChallengeRepo) UpdateResolution(_ context.Context, _ repositories.SQLExecutor, id int, status models.ChallengeStatus, decision string, resolvedBy int, resolvedAt time.Time) error {
	challenge, ok := f.challenges[id]
	if !ok {
		return repositories.ErrChallengeNotFound
	}
	challenge.Status = status
	challenge.AdminDecision = &decision
	challenge.ResolvedBy = &resolvedBy
	challenge.ResolvedAt = &resolvedAt
	return nil
}

type fakeHistoryRepo struct {
	nextID        int
	entries       []*models.EloHistoryEntry
	seasonPlayers *fakeSeasonPlayerRepo
}

func newFakeHistoryRepo(seasonPlayers *fakeSeasonPlayerRepo) *fakeHistoryRepo {
	return &fakeHistoryRepo{seasonPlayers: seasonPlayers}
}

func (f *fakeHistoryRepo) BatchCreate(_ context.Context, _ repositories.SQLExecutor, entries []*models.EloHistoryEntry) error {
	for _, entry := range entries {
		f.nextID++
		entry.ID = f.nextID
		entry.CreatedAt = time.Now()
		f.entries = append(f.entries, entry)
	}
	return nil
}

func (f *fakeHistoryRepo) ListBySeasonPlayer(_ context.Context, seasonPlayerID int) ([]*models.EloHistoryEntry, error) {
	var entries []*models.EloHistoryEntry
	for _, entry := range f.entries {
		if entry.SeasonPlayerID == seasonPlayerID {
			copied := *entry
			entries = append(entries, &copied)
		}
	}
	return entries, nil
}

func (f *fakeHistoryRepo) DeleteBySeason(_ context.Context, _ repositories.SQLExecutor, seasonID int) error {
	kept := f.entries[:0]
	for _, entry := range f.entries {
		sp, ok := f.seasonPlayers.seasonPlayers[entry.SeasonPlayerID]
		if ok && sp.SeasonID == seasonID {
			continue
		}
		kept = append(kept, entry)
	}
	f.entries = kept
	return nil
}

type fakeHub struct {
	events []live.Event
}

func (f *fakeHub) Broadcast(event live.Event) {
	f.events = append(f.events, event)
}

func (f *fakeHub) eventsOfType(eventType string) []live.Event {
	var matched []live.Event
	for _, event := range f.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

// env wires the full service stack over in-memory storage.
type env struct {
	seasons       *fakeSeasonRepo
	matches       *fakeMatchRepo
	fixtures      *fakeFixtureRepo
	players       *fakePlayerRepo
	seasonPlayers *fakeSeasonPlayerRepo
	results       *fakeResultRepo
	conflicts     *fakeConflictRepo
	challenges    *fakeChallengeRepo
	history       *fakeHistoryRepo
	hub           *fakeHub

	ratingService   RatingService
	scoreService    ScoreService
	scheduleService ScheduleService
	seasonService   SeasonService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := newTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := &env{
		seasons:       newFakeSeasonRepo(),
		matches:       newFakeMatchRepo(),
		fixtures:      newFakeFixtureRepo(),
		players:       newFakePlayerRepo(),
		seasonPlayers: newFakeSeasonPlayerRepo(),
		conflicts:     newFakeConflictRepo(),
		challenges:    newFakeChallengeRepo(),
		hub:           &fakeHub{},
	}
	e.results = newFakeResultRepo(e.fixtures, e.matches)
	e.history = newFakeHistoryRepo(e.seasonPlayers)

	e.ratingService = NewRatingService(db, e.seasons, e.matches, e.fixtures,
		e.seasonPlayers, e.players, e.results, e.history, e.hub, logger)
	e.scoreService = NewScoreService(db, e.seasons, e.matches, e.fixtures,
		e.seasonPlayers, e.results, e.conflicts, e.challenges, e.ratingService, e.hub, logger)
	e.scheduleService = NewScheduleService(db, e.seasons, e.matches, e.fixtures, e.hub, logger)
	e.seasonService = NewSeasonService(db, e.seasons, e.matches, e.players,
		e.seasonPlayers, e.history, logger)
	return e
}

func (e *env) seedSeason(t *testing.T, eloEnabled bool) *models.Season {
	t.Helper()
	season := &models.Season{
		Name:             "Test Season",
		Status:           models.SeasonStatusActive,
		EloEnabled:       eloEnabled,
		EloKFactor:       32,
		EloInitialRating: 1200,
	}
	if err := e.seasons.Create(context.Background(), season); err != nil {
		t.Fatalf("seed season: %v", err)
	}
	return season
}

func (e *env) seedMatch(t *testing.T, seasonID int, date time.Time) *models.Match {
	t.Helper()
	match := &models.Match{
		SeasonID:   seasonID,
		WeekNumber: len(e.matches.matches) + 1,
		MatchDate:  date,
		Status:     models.MatchStatusScheduled,
	}
	if err := e.matches.Create(context.Background(), match); err != nil {
		t.Fatalf("seed match: %v", err)
	}
	return match
}

// seedFixture creates a single fixture with pair1 = players[0], players[1]
// and pair2 = players[2], players[3].
func (e *env) seedFixture(t *testing.T, matchID int, playerIDs [4]int) *models.Fixture {
	t.Helper()
	fixture := &models.Fixture{
		MatchID:        matchID,
		CourtNumber:    1,
		GameNumber:     len(e.fixtures.fixtures) + 1,
		Pair1Player1ID: playerIDs[0],
		Pair1Player2ID: playerIDs[1],
		Pair2Player1ID: playerIDs[2],
		Pair2Player2ID: playerIDs[3],
	}
	if err := e.fixtures.BatchCreate(context.Background(), nil, []*models.Fixture{fixture}); err != nil {
		t.Fatalf("seed fixture: %v", err)
	}
	return fixture
}

func (e *env) seedPlayer(t *testing.T, id int, name string) *models.Player {
	t.Helper()
	player := &models.Player{
		ID:        id,
		Name:      name,
		EloRating: 1200,
		InLadder:  true,
		Status:    models.PlayerStatusApproved,
	}
	e.players.players[id] = player
	return player
}

func (e *env) seasonRating(t *testing.T, seasonID, playerID int) int {
	t.Helper()
	sp, err := e.seasonPlayers.GetBySeasonAndPlayer(context.Background(), nil, seasonID, playerID)
	if err != nil {
		t.Fatalf("season player %d/%d: %v", seasonID, playerID, err)
	}
	return sp.EloRating
}
