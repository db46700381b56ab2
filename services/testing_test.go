package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"league-system/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a fresh in-memory store per test. cache=shared keeps every
// pooled connection on the same database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Game{},
		&models.GameID{},
		&models.Player{},
		&models.RewardCategory{},
		&models.Reward{},
		&models.PromoItem{},
		&models.LeagueSeason{},
		&models.LeagueEnroll{},
		&models.EventCategory{},
		&models.Tournament{},
		&models.Match{},
		&models.MatchResult{},
	))
	return db
}

func createGame(t *testing.T, db *gorm.DB, name string, win, lose, draw int) *models.Game {
	t.Helper()
	game := &models.Game{
		Name:             name,
		IDName:           "DCI Number",
		PointsForWinning: win,
		PointsForLosing:  lose,
		PointsForDraw:    draw,
		ReporterTool:     models.ReporterToolWizards,
	}
	require.NoError(t, db.Create(game).Error)
	return game
}

func createSeason(t *testing.T, db *gorm.DB, game *models.Game, maxMatches int) *models.LeagueSeason {
	t.Helper()
	season := &models.LeagueSeason{
		Name:       game.Name + " season",
		GameID:     game.ID,
		StartDate:  time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC),
		MaxMatches: maxMatches,
	}
	require.NoError(t, db.Create(season).Error)
	return season
}

func createCategory(t *testing.T, db *gorm.DB, name string, value int) *models.RewardCategory {
	t.Helper()
	category := &models.RewardCategory{Name: name, Value: value}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createPlayer(t *testing.T, db *gorm.DB, username, surname string) *models.Player {
	t.Helper()
	player := &models.Player{
		ExternalUserID: "ext-" + username,
		Username:       username,
		LastName:       &surname,
	}
	require.NoError(t, db.Create(player).Error)
	return player
}

func enrollAt(t *testing.T, db *gorm.DB, player *models.Player, season *models.LeagueSeason, date time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.LeagueEnroll{
		PlayerID: player.ID,
		SeasonID: season.ID,
		Date:     date,
	}).Error)
}

func giveGameID(t *testing.T, db *gorm.DB, player *models.Player, game *models.Game, number string) {
	t.Helper()
	require.NoError(t, db.Create(&models.GameID{
		GameID:   game.ID,
		PlayerID: player.ID,
		Number:   number,
	}).Error)
}

// reloadSeason re-reads the season so tests observe reward wiring updates.
func reloadSeason(t *testing.T, db *gorm.DB, season *models.LeagueSeason) *models.LeagueSeason {
	t.Helper()
	var fresh models.LeagueSeason
	require.NoError(t, db.First(&fresh, "id = ?", season.ID).Error)
	return &fresh
}
