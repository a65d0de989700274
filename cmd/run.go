package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adsbot/config"
	"adsbot/database"
	"adsbot/domain"
	"adsbot/domain/entities"
	"adsbot/domain/interfaces"
	"adsbot/domain/services"
	"adsbot/repository"
	"adsbot/server"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting adsbot backend...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Run pending migrations on startup
	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db)

	// Initialize randomness for the draw engine
	numbers := services.NewCryptoNumberSource()

	// Initialize HTTP server
	srv := server.New(cfg, db, uowFactory, numbers)

	// Schedule the automatic monthly draw: 00:00 UTC on the 1st, drawing the
	// month that just ended
	scheduler := cron.New(cron.WithLocation(time.UTC))
	_, err = scheduler.AddFunc("0 0 1 * *", func() {
		drawCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		period := entities.PreviousPeriod(time.Now())
		if err := conductScheduledDraw(drawCtx, uowFactory, numbers, period); err != nil {
			log.WithError(err).WithField("period", period).Error("scheduled draw failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule monthly draw: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start serving in the background so shutdown can be coordinated
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

// conductScheduledDraw runs the monthly draw inside one unit of work. A draw
// already conducted for the period (e.g. triggered manually) is not an error.
func conductScheduledDraw(ctx context.Context, uowFactory interfaces.UnitOfWorkFactory, numbers interfaces.NumberSource, period string) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin unit of work: %w", err)
	}

	lottery := services.NewLotteryService(
		uow.AccountRepository(),
		uow.LotteryTicketRepository(),
		uow.LotteryDrawRepository(),
		services.NewLedgerService(uow.AccountRepository(), uow.LedgerEventRepository()),
		numbers,
	)

	draw, err := lottery.ConductDraw(ctx, period)
	if err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			log.WithError(rbErr).Error("rollback failed")
		}
		if errors.Is(err, domain.ErrDrawAlreadyConducted) || errors.Is(err, domain.ErrNoParticipants) {
			log.WithError(err).WithField("period", period).Info("scheduled draw skipped")
			return nil
		}
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit draw: %w", err)
	}

	log.WithFields(log.Fields{
		"period":  draw.Period,
		"winners": len(draw.Winners),
	}).Info("scheduled draw completed")
	return nil
}
