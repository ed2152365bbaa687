package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"glambook/internal/config"
	"glambook/internal/database"
	"glambook/internal/domain/booking"
	"glambook/internal/domain/user"
	"glambook/internal/pkg/logger"
)

// Seeds demo accounts and a sample booking for local development.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	if err := booking.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	if err := db.AutoMigrate(&user.User{}); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	ctx := context.Background()
	users := user.NewRepository(db)
	bookings := booking.NewBookingRepository(db)

	accounts := []struct {
		name     string
		email    string
		password string
		role     user.Role
	}{
		{"Aliya Nurgaliyeva", "aliya@example.com", "password123", user.RoleCustomer},
		{"Dana Serikova", "dana@example.com", "password123", user.RoleArtist},
		{"Admin", "admin@example.com", "password123", user.RoleAdmin},
	}

	created := make([]*user.User, 0, len(accounts))
	for _, a := range accounts {
		if existing, err := users.GetByEmail(ctx, a.email); err == nil {
			log.Info("user exists, skipping", zap.String("email", a.email))
			created = append(created, existing)
			continue
		}

		u := &user.User{Name: a.name, Email: a.email, Role: a.role}
		if err := u.SetPassword(a.password); err != nil {
			log.Fatal("hash password", zap.Error(err))
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal("create user", zap.String("email", a.email), zap.Error(err))
		}
		log.Info("user created", zap.String("email", a.email), zap.String("role", string(a.role)))
		created = append(created, u)
	}

	customer, artist := created[0], created[1]

	services := []booking.BookedService{
		{ID: "svc-bridal-makeup", Name: "Bridal Makeup", DurationMinutes: 90, Price: 80000},
		{ID: "svc-hair-styling", Name: "Hair Styling", DurationMinutes: 60, Price: 20000},
	}
	quote := booking.PriceServices(services)

	date := time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	start := date.Add(10 * time.Hour)
	now := time.Now()

	b := &booking.Booking{
		BookingNumber: booking.NewBookingNumber(),
		CustomerID:    customer.ID,
		ArtistID:      artist.ID,
		ServiceType:   "makeup",
		Services:      services,
		ScheduledDate: date,
		StartTime:     start,
		EndTime:       start.Add(150 * time.Minute),
		Subtotal:      quote.Subtotal,
		PlatformFee:   quote.PlatformFee,
		Tax:           quote.Tax,
		TotalAmount:   quote.Total,
		Status:        booking.StatusPending,
		PaymentStatus: booking.PaymentPending,
		StatusHistory: []booking.StatusChange{{Status: booking.StatusPending, Timestamp: now}},
	}
	if err := bookings.Create(ctx, b); err != nil {
		log.Fatal("create booking", zap.Error(err))
	}

	fmt.Printf("seeded booking %s (%d) for %s -> %s\n", b.BookingNumber, b.ID, customer.Email, artist.Email)
}
