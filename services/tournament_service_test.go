package services

import (
	"testing"
	"time"

	"league-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const wizardsExport = `<report>
  <matches>
    <round date="2015-03-07 10:00">
      <person id="10001"/>
      <person id="10002"/>
      <person id="10003"/>
      <match person="10001" opponent="10002" win="2" loss="1"/>
      <match person="10003" win="2" loss="0"/>
    </round>
    <round date="2015-03-07 13:00">
      <match person="10002" opponent="10001" win="2" loss="0"/>
    </round>
  </matches>
</report>`

func createEventCategory(t *testing.T, db *gorm.DB, enrollReward *models.RewardCategory, multiplier int) *models.EventCategory {
	t.Helper()
	category := &models.EventCategory{Name: "FNM", RewardMultiplier: multiplier}
	if enrollReward != nil {
		category.EnrollRewardID = &enrollReward.ID
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

type tournamentFixture struct {
	db       *gorm.DB
	svc      *TournamentService
	game     *models.Game
	season   *models.LeagueSeason
	category *models.EventCategory
	alice    *models.Player
	bob      *models.Player
}

func setupTournament(t *testing.T, multiplier int) *tournamentFixture {
	t.Helper()
	db := testDB(t)
	rewards := NewRewardService(db)
	league := NewLeagueService(db, rewards)
	svc := NewTournamentService(db, NewResolverService(db), league, rewards)

	game := createGame(t, db, "magic", 3, 0, 1)
	season := createSeason(t, db, game, 2)
	enroll := createCategory(t, db, "tournament entry", 5)
	category := createEventCategory(t, db, enroll, multiplier)

	alice := createPlayer(t, db, "alice", "Ames")
	bob := createPlayer(t, db, "bob", "Zed")
	giveGameID(t, db, alice, game, "10001")
	giveGameID(t, db, bob, game, "10002")
	enrollAt(t, db, alice, season, season.StartDate)
	enrollAt(t, db, bob, season, season.StartDate)

	return &tournamentFixture{db: db, svc: svc, game: game, season: season, category: category, alice: alice, bob: bob}
}

func entryRewards(t *testing.T, db *gorm.DB, player *models.Player) []models.Reward {
	t.Helper()
	var rewards []models.Reward
	require.NoError(t, db.Find(&rewards, "player_id = ? AND comment = ?", player.ID, "[auto] tournament entry").Error)
	return rewards
}

func TestImportWizardsExport(t *testing.T) {
	f := setupTournament(t, 2)
	tournament := &models.Tournament{
		SeasonID:     f.season.ID,
		CategoryID:   f.category.ID,
		Result:       wizardsExport,
		ReporterTool: models.ReporterToolWizards,
	}
	require.NoError(t, f.db.Create(tournament).Error)

	require.NoError(t, f.svc.Import(tournament, false))
	assert.True(t, tournament.Parsed)

	// Entry rewards pay the category value times the event multiplier.
	// Person 10003 is reported too but has no local record, so only two pay out.
	for _, player := range []*models.Player{f.alice, f.bob} {
		rewards := entryRewards(t, f.db, player)
		require.Len(t, rewards, 1)
		assert.Equal(t, 10, rewards[0].Value)
	}

	// The bye leaves only two recorded pairings, both tied to the tournament.
	var matches []models.Match
	require.NoError(t, f.db.Order(`"when"`).Find(&matches, "tournament_id = ?", tournament.ID).Error)
	require.Len(t, matches, 2)
	assert.False(t, matches[0].Ignore)
	assert.Equal(t, time.Date(2015, 3, 7, 10, 0, 0, 0, time.UTC), matches[0].When.UTC())
	assert.Equal(t, time.Date(2015, 3, 7, 13, 0, 0, 0, time.UTC), matches[1].When.UTC())

	var stored models.Tournament
	require.NoError(t, f.db.First(&stored, "id = ?", tournament.ID).Error)
	assert.True(t, stored.Parsed)
	require.NotNil(t, stored.StartDate)
	require.NotNil(t, stored.EndDate)
	assert.Equal(t, time.Date(2015, 3, 7, 10, 0, 0, 0, time.UTC), stored.StartDate.UTC())
	assert.Equal(t, time.Date(2015, 3, 7, 14, 0, 0, 0, time.UTC), stored.EndDate.UTC())
}

func TestImportIsIdempotent(t *testing.T) {
	f := setupTournament(t, 1)
	tournament := &models.Tournament{
		SeasonID:     f.season.ID,
		CategoryID:   f.category.ID,
		Result:       wizardsExport,
		ReporterTool: models.ReporterToolWizards,
	}
	require.NoError(t, f.db.Create(tournament).Error)
	require.NoError(t, f.svc.Import(tournament, false))

	var reloaded models.Tournament
	require.NoError(t, f.db.First(&reloaded, "id = ?", tournament.ID).Error)
	require.NoError(t, f.svc.Import(&reloaded, false))

	var matchCount int64
	require.NoError(t, f.db.Model(&models.Match{}).Where("tournament_id = ?", tournament.ID).Count(&matchCount).Error)
	assert.EqualValues(t, 2, matchCount)
	assert.Len(t, entryRewards(t, f.db, f.alice), 1)
}

func TestImportSkipEnroll(t *testing.T) {
	f := setupTournament(t, 1)
	tournament := &models.Tournament{
		SeasonID:     f.season.ID,
		CategoryID:   f.category.ID,
		Result:       wizardsExport,
		ReporterTool: models.ReporterToolWizards,
	}
	require.NoError(t, f.db.Create(tournament).Error)

	require.NoError(t, f.svc.Import(tournament, true))
	assert.Empty(t, entryRewards(t, f.db, f.alice))
	assert.Empty(t, entryRewards(t, f.db, f.bob))

	var matchCount int64
	require.NoError(t, f.db.Model(&models.Match{}).Where("tournament_id = ?", tournament.ID).Count(&matchCount).Error)
	assert.EqualValues(t, 2, matchCount)
}

func TestImportKeepsProvidedDates(t *testing.T) {
	f := setupTournament(t, 1)
	start := time.Date(2015, 3, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2015, 3, 8, 18, 0, 0, 0, time.UTC)
	tournament := &models.Tournament{
		SeasonID:     f.season.ID,
		CategoryID:   f.category.ID,
		StartDate:    &start,
		EndDate:      &end,
		Result:       wizardsExport,
		ReporterTool: models.ReporterToolWizards,
	}
	require.NoError(t, f.db.Create(tournament).Error)
	require.NoError(t, f.svc.Import(tournament, false))

	var stored models.Tournament
	require.NoError(t, f.db.First(&stored, "id = ?", tournament.ID).Error)
	assert.Equal(t, start, stored.StartDate.UTC())
	assert.Equal(t, end, stored.EndDate.UTC())
}

func TestSaveCopiesReporterTool(t *testing.T) {
	f := setupTournament(t, 1)
	tournament := &models.Tournament{
		SeasonID:   f.season.ID,
		CategoryID: f.category.ID,
		Result:     wizardsExport,
	}

	require.NoError(t, f.svc.Save(tournament))
	assert.Equal(t, models.ReporterToolWizards, tournament.ReporterTool)
	assert.True(t, tournament.Parsed)
}

func TestSaveKeepsUnparseablePayload(t *testing.T) {
	db := testDB(t)
	rewards := NewRewardService(db)
	league := NewLeagueService(db, rewards)
	svc := NewTournamentService(db, NewResolverService(db), league, rewards)

	game := createGame(t, db, "pokemon", 3, 0, 1)
	game.ReporterTool = models.ReporterToolPokemon
	require.NoError(t, db.Save(game).Error)
	season := createSeason(t, db, game, 2)
	category := createEventCategory(t, db, nil, 1)

	tournament := &models.Tournament{
		SeasonID:   season.ID,
		CategoryID: category.ID,
		Result:     "<pokemon/>",
	}
	require.NoError(t, svc.Save(tournament))

	var stored models.Tournament
	require.NoError(t, db.First(&stored, "id = ?", tournament.ID).Error)
	assert.Equal(t, models.ReporterToolPokemon, stored.ReporterTool)
	assert.False(t, stored.Parsed, "kept for a retry once a parser exists")
}

func TestImportResolvesAgainstFirstRoundCutoff(t *testing.T) {
	f := setupTournament(t, 1)

	// carol enrolled after the tournament started; her pairings are dropped.
	carol := createPlayer(t, f.db, "carol", "Cole")
	giveGameID(t, f.db, carol, f.game, "10004")
	enrollAt(t, f.db, carol, f.season, time.Date(2015, 3, 9, 0, 0, 0, 0, time.UTC))

	payload := `<report><matches>
	  <round date="2015-03-07 10:00">
	    <match person="10004" opponent="10001" win="2" loss="0"/>
	    <match person="10001" opponent="10002" win="2" loss="1"/>
	  </round>
	</matches></report>`
	tournament := &models.Tournament{
		SeasonID:     f.season.ID,
		CategoryID:   f.category.ID,
		Result:       payload,
		ReporterTool: models.ReporterToolWizards,
	}
	require.NoError(t, f.db.Create(tournament).Error)
	require.NoError(t, f.svc.Import(tournament, true))

	var matchCount int64
	require.NoError(t, f.db.Model(&models.Match{}).Where("tournament_id = ?", tournament.ID).Count(&matchCount).Error)
	assert.EqualValues(t, 1, matchCount)

	var stored models.Tournament
	require.NoError(t, f.db.First(&stored, "id = ?", tournament.ID).Error)
	assert.True(t, stored.Parsed)
}
