// Package main seeds a development database with demo accounts and events.
package main

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/frontend-leeds/backend/config"
	"github.com/frontend-leeds/backend/internal/auth"
	"github.com/frontend-leeds/backend/internal/events"
	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/internal/rsvp"
	"github.com/frontend-leeds/backend/pkg/database"
	"github.com/frontend-leeds/backend/pkg/utils"
)

const demoPassword = "password123"

type seedUser struct {
	name  string
	email string
	role  models.Role
}

type seedEvent struct {
	title       string
	description string
	location    string
	offset      time.Duration
	length      time.Duration
	capacity    int
}

var seedUsers = []seedUser{
	{name: "Admin User", email: "admin@example.com", role: models.RoleAdmin},
	{name: "Regular User", email: "user@example.com", role: models.RoleUser},
}

var seedEvents = []seedEvent{
	{
		title:       "Frontend Leeds Meetup: State of CSS",
		description: "Container queries, cascade layers and what is next for CSS.",
		location:    "Platform, New Station Street, Leeds",
		offset:      14 * 24 * time.Hour,
		length:      2 * time.Hour,
		capacity:    60,
	},
	{
		title:       "Accessibility Workshop",
		description: "Hands-on session auditing real sites with assistive technology.",
		location:    "Leeds Digital Hub",
		offset:      35 * 24 * time.Hour,
		length:      3 * time.Hour,
		capacity:    20,
	},
	{
		title:       "Frontend Leeds Meetup: Web Performance",
		description: "Core Web Vitals in practice, with talks from local teams.",
		location:    "Platform, New Station Street, Leeds",
		offset:      -30 * 24 * time.Hour,
		length:      2 * time.Hour,
	},
}

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	userRepo := auth.NewRepository(pool)
	accounts := make(map[models.Role]*models.User, len(seedUsers))
	for _, su := range seedUsers {
		u, err := ensureUser(ctx, userRepo, su)
		if err != nil {
			logger.Fatal("seed user", zap.String("email", su.email), zap.Error(err))
		}
		accounts[su.role] = u
	}

	admin := accounts[models.RoleAdmin]
	eventRepo := events.NewRepository(pool)
	existing, err := eventRepo.ListByCreator(ctx, admin.ID)
	if err != nil {
		logger.Fatal("list events", zap.Error(err))
	}
	titles := make(map[string]bool, len(existing))
	for _, e := range existing {
		titles[e.Title] = true
	}

	rsvpRepo := rsvp.NewRepository(pool)
	day := time.Now().UTC().Truncate(24 * time.Hour).Add(18 * time.Hour)
	for _, se := range seedEvents {
		if titles[se.title] {
			logger.Info("event exists", zap.String("title", se.title))
			continue
		}
		e := &models.Event{
			Title:       se.title,
			Description: se.description,
			Content:     se.description,
			Location:    se.location,
			StartTime:   day.Add(se.offset),
			EndTime:     day.Add(se.offset + se.length),
			Published:   true,
			CreatorID:   admin.ID,
		}
		if se.capacity > 0 {
			c := se.capacity
			e.Capacity = &c
		}
		if err := eventRepo.Create(ctx, e); err != nil {
			logger.Fatal("seed event", zap.String("title", se.title), zap.Error(err))
		}
		if _, err := rsvpRepo.Upsert(ctx, accounts[models.RoleUser].ID, e.ID, models.RSVPGoing); err != nil {
			logger.Fatal("seed rsvp", zap.Error(err))
		}
		logger.Info("event created", zap.String("title", se.title), zap.String("event_id", e.ID.String()))
	}
	logger.Info("seed complete")
}

func ensureUser(ctx context.Context, repo *auth.Repository, su seedUser) (*models.User, error) {
	u, err := repo.GetByEmail(ctx, su.email)
	if err != nil || u != nil {
		return u, err
	}
	hash, err := utils.HashPassword(demoPassword)
	if err != nil {
		return nil, err
	}
	return repo.Create(ctx, su.name, su.email, hash, su.role)
}

func newLogger() *zap.Logger {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
