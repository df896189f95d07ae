// Package main provides a tool to seed the database with demo lunch data.
//
// It creates a handful of users, a few weeks of lunch records for each and
// random reactions between them, so the feed and reports have something to show.
//
// Usage:
//
//	go run ./cmd/seed --dsn ./data/massi5.db
//	go run ./cmd/seed --driver postgres --dsn postgres://localhost/massi5 --users 10 --days 30
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/logger"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/store"
)

var (
	driver    = flag.String("driver", store.DriverSQLite, "Database driver (sqlite or postgres)")
	dsn       = flag.String("dsn", "data/massi5.db", "SQLite file path or postgres DSN")
	userCount = flag.Int("users", 5, "Number of demo users")
	days      = flag.Int("days", 28, "Number of days of records per user, ending today")
)

// seedKakaoIDBase keeps demo identities far away from real Kakao IDs.
const seedKakaoIDBase = 9_000_000_000

var menus = map[string][]string{
	"KOREAN":   {"김치찌개", "된장찌개", "비빔밥", "제육볶음", "순두부찌개"},
	"CHINESE":  {"짜장면", "짬뽕", "탕수육", "볶음밥"},
	"JAPANESE": {"돈카츠", "라멘", "초밥", "규동"},
	"WESTERN":  {"파스타", "햄버거", "샐러드", "피자"},
	"SNACK":    {"떡볶이", "김밥", "라볶이"},
}

func main() {
	flag.Parse()

	log := logger.New(logger.Config{Level: slog.LevelInfo, Format: "pretty"})

	ctx := context.Background()
	s, err := store.Open(ctx, store.Config{Driver: *driver, DSN: *dsn}, logger.Discard().Logger)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", *driver, err)
	}
	defer s.Close()

	fmt.Printf("Seeding %s database at: %s\n", s.Driver(), *dsn)

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

	users := createUsers(ctx, s, log)
	if len(users) == 0 {
		s.Close()
		log.Fatal("No users available to seed", "requested", *userCount)
	}

	var records []*domain.LunchRecord
	for _, user := range users {
		created := createRecords(ctx, s, log, rng, user)
		fmt.Printf("  user %d: %d records\n", user.ID, len(created))
		records = append(records, created...)
	}

	reactions := createReactions(ctx, s, log, rng, users, records)

	fmt.Printf("\nDone: %d users, %d records, %d reactions\n", len(users), len(records), reactions)
}

func createUsers(ctx context.Context, s *store.Store, log *logger.Logger) []*domain.User {
	users := make([]*domain.User, 0, *userCount)
	for n := range *userCount {
		kakaoID := int64(seedKakaoIDBase + n)

		existing, err := s.GetUserByKakaoID(ctx, kakaoID)
		if err == nil {
			users = append(users, existing)
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			log.WithField("kakao_id", kakaoID).WithError(err).Warn("Failed to look up demo user")
			continue
		}

		nickname := fmt.Sprintf("점심러%d", n+1)
		email := fmt.Sprintf("lunch%d@example.com", n+1)
		user := &domain.User{
			KakaoID:  kakaoID,
			Nickname: &nickname,
			Email:    &email,
		}
		if err := s.CreateUser(ctx, user); err != nil {
			log.WithField("kakao_id", kakaoID).WithError(err).Warn("Failed to create demo user")
			continue
		}
		fmt.Printf("Created user %d (%s)\n", user.ID, nickname)
		users = append(users, user)
	}
	return users
}

func createRecords(ctx context.Context, s *store.Store, log *logger.Logger, rng *rand.Rand, user *domain.User) []*domain.LunchRecord {
	categories := make([]string, 0, len(menus))
	for c := range menus {
		categories = append(categories, c)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	var out []*domain.LunchRecord
	for d := range *days {
		// Skip some days so the reports are not perfectly uniform.
		if rng.IntN(5) == 0 {
			continue
		}

		category := categories[rng.IntN(len(categories))]
		options := menus[category]
		menu := domain.NormalizeMenuName(options[rng.IntN(len(options))])

		rec := &domain.LunchRecord{
			UserID:     user.ID,
			RecordedAt: today.AddDate(0, 0, -d),
			Category:   domain.OptionalString(category),
			MenuName:   domain.OptionalString(menu),
		}
		if rng.IntN(3) == 0 {
			rec.Content = domain.OptionalString(fmt.Sprintf("오늘 %s 맛있었다", menu))
		}

		if err := s.CreateLunchRecord(ctx, rec); err != nil {
			log.WithField("user_id", user.ID).WithError(err).Warn("Failed to create record")
			continue
		}
		out = append(out, rec)
	}
	return out
}

func createReactions(ctx context.Context, s *store.Store, log *logger.Logger, rng *rand.Rand, users []*domain.User, records []*domain.LunchRecord) int {
	codes := domain.AllowedReactions()
	count := 0
	for _, rec := range records {
		for _, user := range users {
			if user.ID == rec.UserID || rng.IntN(4) != 0 {
				continue
			}
			code := codes[rng.IntN(len(codes))]
			if _, err := s.CreateReaction(ctx, rec.ID, user.ID, code); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					continue
				}
				log.WithField("record_id", rec.ID).WithError(err).Warn("Failed to react to record")
				continue
			}
			count++
		}
	}
	return count
}
