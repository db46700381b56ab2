package services

import (
	"fmt"
	"log"
	"time"

	"league-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RewardService is the reward ledger. Positive postings add stamps to a
// player's card; a negative posting spends them, consuming the oldest
// still-positive postings first (FIFO).
type RewardService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db, now: time.Now}
}

// PostOptions tweaks a single posting. Zero values fall back to the
// category's configuration: Value to the category value, Comment to the
// category name, When to the posting time.
type PostOptions struct {
	Value   *int
	Comment string
	When    time.Time
}

// Post records one reward transaction for the player. When the resolved value
// is negative and the player's positive balance strictly covers it, the
// oldest positive postings are drained first until the debit reaches zero;
// with no (or insufficient) coverage the posting keeps its raw negative value
// and the running balance simply goes negative. The whole posting, including
// the mutation of older rows, is a single transaction.
func (s *RewardService) Post(player *models.Player, category *models.RewardCategory, season *models.LeagueSeason, opts PostOptions) (*models.Reward, error) {
	var reward *models.Reward
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		reward, err = s.post(tx, player, category, season, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reward, nil
}

// post is Post running inside an already-open transaction. Other services use
// it to fold ledger writes into their own transactional unit.
func (s *RewardService) post(tx *gorm.DB, player *models.Player, category *models.RewardCategory, season *models.LeagueSeason, opts PostOptions) (*models.Reward, error) {
	value := category.Value
	if opts.Value != nil {
		value = *opts.Value
	}
	comment := opts.Comment
	if comment == "" {
		comment = category.Name
	}
	when := opts.When
	if when.IsZero() {
		when = s.now()
	}

	reward := &models.Reward{
		PlayerID:   player.ID,
		CategoryID: category.ID,
		SeasonID:   season.ID,
		Value:      value,
		OrigValue:  value,
		When:       when,
		Comment:    comment,
	}

	if reward.Value < 0 {
		if err := s.consume(tx, player.ID, reward); err != nil {
			return nil, err
		}
	}

	if err := tx.Create(reward).Error; err != nil {
		return nil, fmt.Errorf("create reward: %w", err)
	}
	return reward, nil
}

// consume drains the player's oldest positive postings into the pending
// debit. Consumption only happens when the positive total strictly exceeds
// the debit; otherwise the debit posts as-is.
func (s *RewardService) consume(tx *gorm.DB, playerID string, debit *models.Reward) error {
	var positives []models.Reward
	err := lockForUpdate(tx).
		Where("player_id = ? AND value > 0", playerID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "when"}}).
		Find(&positives).Error
	if err != nil {
		return fmt.Errorf("load positive rewards: %w", err)
	}

	total := 0
	for _, r := range positives {
		total += r.Value
	}
	if total <= 0 || total <= -debit.Value {
		return nil
	}

	for i := range positives {
		if debit.Value >= 0 {
			break
		}
		r := &positives[i]
		if r.Value >= -debit.Value {
			r.Value += debit.Value
			debit.Value = 0
		} else {
			debit.Value += r.Value
			r.Value = 0
		}
		if err := tx.Model(&models.Reward{}).Where("id = ?", r.ID).Update("value", r.Value).Error; err != nil {
			return fmt.Errorf("deplete reward %s: %w", r.ID, err)
		}
	}
	return nil
}

// RedeemPromo spends a player's collected rewards on a promo item by posting
// the item's (negative) reward category.
func (s *RewardService) RedeemPromo(player *models.Player, item *models.PromoItem, season *models.LeagueSeason) (*models.Reward, error) {
	var category models.RewardCategory
	if err := s.DB.First(&category, "id = ?", item.RewardCategoryID).Error; err != nil {
		return nil, fmt.Errorf("promo reward category: %w", err)
	}
	reward, err := s.Post(player, &category, season, PostOptions{Comment: "[auto] promo pickup: " + item.Name})
	if err != nil {
		return nil, err
	}
	log.Printf("[Rewards] %s picked up promo %q for %d", player.Username, item.Name, category.Value)
	return reward, nil
}
