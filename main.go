package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"league-system/models"
	"league-system/services"
	"league-system/workers"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
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
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	rewardService := services.NewRewardService(db)
	leagueService := services.NewLeagueService(db, rewardService)
	resolverService := services.NewResolverService(db)
	tournamentService := services.NewTournamentService(db, resolverService, leagueService, rewardService)

	profileServiceURL := os.Getenv("PROFILE_SERVICE_URL")
	if profileServiceURL == "" {
		log.Fatal("PROFILE_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("LEAGUE_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("LEAGUE_SERVICE_TOKEN environment variable not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncWorker := workers.NewPlayerSyncWorker(db, profileServiceURL, "/api/v1/public/profiles", serviceToken)
	syncWorker.Start(ctx)

	tournamentService.StartImportScheduler()

	log.Println("✅ Player Sync Worker running")
	log.Println("✅ Tournament import retry scheduler running (every 5m)")

	<-ctx.Done()
	log.Println("Shutting down...")
}
