package services

import (
	"errors"
	"fmt"
	"time"

	"league-system/models"

	"gorm.io/gorm"
)

// ErrInvalidResult rejects match reports with negative game-win counts.
var ErrInvalidResult = errors.New("invalid match result")

// LeagueService records matches and enrollments for league seasons.
type LeagueService struct {
	DB      *gorm.DB
	rewards *RewardService
	now     func() time.Time
}

func NewLeagueService(db *gorm.DB, rewards *RewardService) *LeagueService {
	return &LeagueService{DB: db, rewards: rewards, now: time.Now}
}

// ReportMatchParams describes one reported match. A zero When resolves to the
// service clock at call time. Multiplier scales reward payouts and defaults
// to 1; Category falls back to the season's default match category.
type ReportMatchParams struct {
	Winner     *models.Player
	Loser      *models.Player
	Won        int
	Lost       int
	When       time.Time
	Category   *models.EventCategory
	Ignore     bool
	Multiplier int
	Tournament *models.Tournament
}

// ReportMatch stores a match with both MatchResult sides, derives points from
// the game's configuration and pays configured rewards through the ledger.
// Matches past the season's per-pair cap are still stored but forced to
// Ignore so they never influence standings.
func (s *LeagueService) ReportMatch(season *models.LeagueSeason, p ReportMatchParams) (*models.Match, error) {
	var match *models.Match
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		match, err = s.reportMatch(tx, season, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (s *LeagueService) reportMatch(tx *gorm.DB, season *models.LeagueSeason, p ReportMatchParams) (*models.Match, error) {
	if p.Won < 0 || p.Lost < 0 {
		return nil, fmt.Errorf("%w: games won %d/%d", ErrInvalidResult, p.Won, p.Lost)
	}

	multiplier := p.Multiplier
	if multiplier == 0 {
		multiplier = 1
	}
	when := p.When
	if when.IsZero() {
		when = s.now()
	}

	category := p.Category
	if category == nil && season.DefaultMatchCategoryID != nil {
		category = &models.EventCategory{}
		if err := tx.First(category, "id = ?", *season.DefaultMatchCategoryID).Error; err != nil {
			return nil, fmt.Errorf("default match category: %w", err)
		}
	}

	var game models.Game
	if err := tx.First(&game, "id = ?", season.GameID).Error; err != nil {
		return nil, fmt.Errorf("season game: %w", err)
	}

	// Points are zeroed only when the caller asked for the match to be
	// ignored; a cap-forced ignore keeps the raw points on record.
	pointsForWin, pointsForLoss, pointsForDraw := 0, 0, 0
	if !p.Ignore {
		pointsForWin = game.PointsForWinning
		pointsForLoss = game.PointsForLosing
		pointsForDraw = game.PointsForDraw
	}

	played, err := s.countPlayed(tx, season, p.Winner, p.Loser)
	if err != nil {
		return nil, err
	}
	ignore := p.Ignore
	if played >= season.MaxMatches {
		ignore = true
	}

	match := &models.Match{
		SeasonID: season.ID,
		When:     when,
		Ignore:   ignore,
	}
	if category != nil {
		match.CategoryID = &category.ID
	}
	if p.Tournament != nil {
		match.TournamentID = &p.Tournament.ID
	}
	if err := tx.Create(match).Error; err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}

	if p.Won != p.Lost {
		winReward, err := s.rewardCategory(tx, season.WinRewardID)
		if err != nil {
			return nil, err
		}
		loseReward, err := s.rewardCategory(tx, season.LoseRewardID)
		if err != nil {
			return nil, err
		}
		if err := s.recordSide(tx, season, match, p.Winner, p.Won, pointsForWin,
			winReward, multiplier, when, "[auto] match won", ignore); err != nil {
			return nil, err
		}
		if err := s.recordSide(tx, season, match, p.Loser, p.Lost, pointsForLoss,
			loseReward, multiplier, when, "[auto] match played", ignore); err != nil {
			return nil, err
		}
	} else {
		drawReward, err := s.rewardCategory(tx, season.DrawRewardID)
		if err != nil {
			return nil, err
		}
		if err := s.recordSide(tx, season, match, p.Winner, p.Won, pointsForDraw,
			drawReward, multiplier, when, "[auto] draw", ignore); err != nil {
			return nil, err
		}
		if err := s.recordSide(tx, season, match, p.Loser, p.Lost, pointsForDraw,
			drawReward, multiplier, when, "[auto] draw", ignore); err != nil {
			return nil, err
		}
	}
	return match, nil
}

// recordSide stores one player's MatchResult and, when a reward category is
// wired and the match counts, pays the reward through the ledger.
func (s *LeagueService) recordSide(tx *gorm.DB, season *models.LeagueSeason, match *models.Match,
	player *models.Player, gamesWon, points int, rewardCat *models.RewardCategory,
	multiplier int, when time.Time, comment string, ignore bool) error {

	result := &models.MatchResult{
		MatchID:  match.ID,
		PlayerID: player.ID,
		GamesWon: gamesWon,
		Points:   points,
	}
	if rewardCat != nil && !ignore {
		value := rewardCat.Value * multiplier
		reward, err := s.rewards.post(tx, player, rewardCat, season, PostOptions{
			Value:   &value,
			When:    when,
			Comment: comment,
		})
		if err != nil {
			return err
		}
		result.RewardID = &reward.ID
	}
	if err := tx.Create(result).Error; err != nil {
		return fmt.Errorf("create match result: %w", err)
	}
	return nil
}

// countPlayed counts the season's non-ignored matches for the ordered pair:
// matches where `winner` held the winning (or drawn) side against `loser`.
// Draws count toward both directions. HowManyPlayed has the symmetric count.
func (s *LeagueService) countPlayed(tx *gorm.DB, season *models.LeagueSeason, winner, loser *models.Player) (int, error) {
	var count int64
	err := tx.Model(&models.Match{}).
		Joins("JOIN match_results rw ON rw.match_id = matches.id AND rw.player_id = ?", winner.ID).
		Joins("JOIN match_results rl ON rl.match_id = matches.id AND rl.player_id = ?", loser.ID).
		Where("matches.season_id = ? AND matches.ignore = ? AND rw.games_won >= rl.games_won", season.ID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count played matches: %w", err)
	}
	return int(count), nil
}

// HowManyPlayed is the symmetric pair count: every non-ignored match of the
// season the two players appeared in together, regardless of direction.
func (s *LeagueService) HowManyPlayed(season *models.LeagueSeason, a, b *models.Player) (int, error) {
	var count int64
	err := s.DB.Model(&models.Match{}).
		Joins("JOIN match_results ra ON ra.match_id = matches.id AND ra.player_id = ?", a.ID).
		Joins("JOIN match_results rb ON rb.match_id = matches.id AND rb.player_id = ?", b.ID).
		Where("matches.season_id = ? AND matches.ignore = ?", season.ID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count pair matches: %w", err)
	}
	return int(count), nil
}

func (s *LeagueService) rewardCategory(tx *gorm.DB, id *string) (*models.RewardCategory, error) {
	if id == nil {
		return nil, nil
	}
	var category models.RewardCategory
	if err := tx.First(&category, "id = ?", *id).Error; err != nil {
		return nil, fmt.Errorf("reward category %s: %w", *id, err)
	}
	return &category, nil
}

// EnrollPlayer signs the player up for the season. The (player, season) pair
// is unique, so a second enrollment fails at the store.
func (s *LeagueService) EnrollPlayer(player *models.Player, season *models.LeagueSeason) error {
	enroll := &models.LeagueEnroll{PlayerID: player.ID, SeasonID: season.ID, Date: s.now()}
	if err := s.DB.Create(enroll).Error; err != nil {
		return fmt.Errorf("enroll %s in %s: %w", player.Username, season.Slug, err)
	}
	return nil
}
