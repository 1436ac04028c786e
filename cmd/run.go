package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"fundpool/config"
	"fundpool/database"
	"fundpool/events"
	"fundpool/repository"
	"fundpool/service"

	logrus "github.com/sirupsen/logrus"
)

// App bundles the wired engine. Callers embed it and drive the services
// directly; there is no network surface in this process.
type App struct {
	DB            *database.DB
	EventBus      *events.Bus
	Deposits      service.DepositService
	Eligibility   service.EligibilityService
	Loans         service.LoanService
	Distributions service.DistributionService
	Settings      service.SettingsService
}

// NewApp connects to the database and wires repositories, event bus and
// services.
func NewApp(ctx context.Context, databaseURL string) (*App, error) {
	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()
	registerEventLogging(eventBus)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	return &App{
		DB:            db,
		EventBus:      eventBus,
		Deposits:      service.NewDepositService(uowFactory),
		Eligibility:   service.NewEligibilityService(uowFactory),
		Loans:         service.NewLoanService(uowFactory),
		Distributions: service.NewDistributionService(uowFactory),
		Settings:      service.NewSettingsService(uowFactory),
	}, nil
}

// Close releases the app's resources
func (a *App) Close() {
	a.DB.Close()
}

// Run initializes the engine and blocks until the context is cancelled
func Run(ctx context.Context) error {
	log.Println("Starting fund pool engine...")

	cfg := config.Get()

	log.Println("Connecting to database...")
	app, err := NewApp(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	log.Println("Database connection established successfully")

	log.Printf("Engine is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Println("Shutting down engine...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	app.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}

// registerEventLogging subscribes an audit log line for every domain event
func registerEventLogging(bus *events.Bus) {
	logEvent := func(ctx context.Context, event events.Event) {
		logrus.WithField("eventType", event.Type()).Info("Domain event")
	}

	bus.Subscribe(events.EventTypeDepositRecorded, logEvent)
	bus.Subscribe(events.EventTypeLoanStateChange, logEvent)
	bus.Subscribe(events.EventTypePaymentApplied, logEvent)
	bus.Subscribe(events.EventTypeSnapshotCreated, logEvent)
	bus.Subscribe(events.EventTypeInterestDistributed, logEvent)
}
