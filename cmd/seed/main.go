package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"scheduleandpay/internal/config"
	"scheduleandpay/internal/database"
	"scheduleandpay/internal/domain"
	"scheduleandpay/internal/pkg/logger"
	"scheduleandpay/internal/repository"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type seedStore interface {
	Create(ctx context.Context, r *domain.Reservation) error
	SaveHours(ctx context.Context, labels []domain.TimeLabel) error
}

func main() {
	password := flag.String("password", "", "print a bcrypt hash for ADMIN_PASSWORD_HASH and exit")
	demo := flag.Int("demo", 0, "number of demo reservations to create this week")
	flag.Parse()

	if *password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(string(hash))
		return
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := open(cfg, log)
	if err != nil {
		log.Fatal("storage unavailable", zap.Error(err))
	}

	ctx := context.Background()
	hours := domain.DefaultHoursCopy()
	if err := store.SaveHours(ctx, hours); err != nil {
		log.Fatal("save hours failed", zap.Error(err))
	}
	log.Info("default hours saved", zap.Strings("hours", domain.LabelStrings(hours)))

	if *demo > 0 {
		created := seedDemo(ctx, store, cfg, hours, *demo, log)
		log.Info("demo reservations created", zap.Int("count", created))
	}

	log.Info("seed completed")
}

func open(cfg *config.Config, log *zap.Logger) (seedStore, error) {
	if path, ok := database.FileStorePath(cfg.DatabaseURL); ok {
		return repository.NewFileStore(path), nil
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, repository.Models()...); err != nil {
		return nil, err
	}
	return struct {
		*repository.ReservationRepository
		*repository.HoursRepository
	}{
		repository.NewReservationRepository(db),
		repository.NewHoursRepository(db),
	}, nil
}

// seedDemo books every other slot of the current week until n reservations
// exist. Slots that are already taken are skipped.
func seedDemo(ctx context.Context, store seedStore, cfg *config.Config, hours []domain.TimeLabel, n int, log *zap.Logger) int {
	start := domain.DayOf(time.Now().In(cfg.Location)).StartOfWeek()
	created := 0

	for i := 0; i < 7 && created < n; i++ {
		day := start.AddDays(i)
		for j := i % 2; j < len(hours) && created < n; j += 2 {
			res := &domain.Reservation{
				Reference: uuid.NewString(),
				Day:       day,
				Time:      hours[j],
				Contact: domain.Contact{
					Name:  fmt.Sprintf("Demo Player %d", created+1),
					Email: fmt.Sprintf("player%d@example.com", created+1),
					Phone: fmt.Sprintf("555-01%02d", created+1),
				},
				CreatedAt: time.Now().UTC(),
			}
			if err := store.Create(ctx, res); err != nil {
				if errors.Is(err, repository.ErrSlotTaken) {
					continue
				}
				log.Fatal("create reservation failed", zap.Error(err))
			}
			created++
		}
	}
	return created
}
