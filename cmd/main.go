package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/shopspring/decimal"

	"github.com/sidbank/ledger-core/internal/bank"
	"github.com/sidbank/ledger-core/internal/config"
	kafkaevents "github.com/sidbank/ledger-core/internal/events/kafka"
	"github.com/sidbank/ledger-core/internal/httpapi"
	"github.com/sidbank/ledger-core/internal/service/ledger"
	"github.com/sidbank/ledger-core/internal/storage/memory"
	pgstore "github.com/sidbank/ledger-core/internal/storage/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	// Logger (slog to stdout). Level via LOG_LEVEL; format via LOG_FORMAT (json|text, default json)
	logger := buildLogger(cfg)
	slog.SetDefault(logger)

	var store bank.Store
	var closeFns []func()

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		closeFns = append(closeFns, pg.Close)
		if cfg.DevSeed {
			if saving, current, err := pg.SeedDev(ctx); err != nil {
				logger.Error("dev seed failed", "err", err)
			} else {
				printDevSeedBanner(logger, "postgres", saving, current)
			}
		}
		store = pg
		logger.Info("storage backend: postgres")
	} else {
		// The in-memory backend always gets a small seed for local use.
		mem := memory.New()
		saving, current := devAccounts()
		mem.SeedAccount(saving)
		mem.SeedAccount(current)
		printDevSeedBanner(logger, "memory", saving, current)
		store = mem
		logger.Info("storage backend: memory")
	}

	var pub ledger.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafkaevents.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		closeFns = append(closeFns, func() { _ = kp.Close() })
		pub = kp
		logger.Info("event publisher: kafka", "brokers", strings.Join(cfg.KafkaBrokers, ","), "topic", cfg.KafkaTopic)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.New(store, pub, logger).Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("ledger service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	for _, fn := range closeFns {
		fn()
	}
}

// devAccounts builds a saving and a current account so the API is usable
// straight away.
func devAccounts() (bank.Account, bank.Account) {
	now := time.Now().UTC()
	savingBalance, _ := money.NewAmountFromMinorUnits("USD", 100_000)
	zero, _ := money.NewAmountFromMinorUnits("USD", 0)
	saving := bank.Account{
		ID:             uuid.New().String(),
		Name:           "Rainy Day",
		Currency:       "USD",
		Type:           bank.AccountTypeSaving,
		Status:         bank.AccountStatusActivated,
		Balance:        savingBalance,
		OverdraftLimit: zero,
		InterestRate:   decimal.RequireFromString("0.035"),
		CreatedAt:      now,
	}
	currentBalance, _ := money.NewAmountFromMinorUnits("USD", 20_000)
	overdraft, _ := money.NewAmountFromMinorUnits("USD", 50_000)
	current := bank.Account{
		ID:             uuid.New().String(),
		Name:           "Everyday",
		Currency:       "USD",
		Type:           bank.AccountTypeCurrent,
		Status:         bank.AccountStatusActivated,
		Balance:        currentBalance,
		OverdraftLimit: overdraft,
		CreatedAt:      now,
	}
	return saving, current
}

// printDevSeedBanner logs the seeded ids and prints a banner for easy
// copy/paste.
func printDevSeedBanner(logger *slog.Logger, backend string, saving, current bank.Account) {
	logger.Info("DEV seed ("+backend+")", "saving_account_id", saving.ID, "current_account_id", current.ID)
	fmt.Println("==================== DEV SEED ====================")
	fmt.Printf("saving_account_id:  %s\n", saving.ID)
	fmt.Printf("current_account_id: %s\n", current.ID)
	fmt.Println("==================================================")
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "WARNING", "warn", "warning":
		return slog.LevelWarn
	case "ERROR", "ERR", "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLogger(cfg config.Config) *slog.Logger {
	level := parseLogLevel(cfg.LogLevel)
	if strings.ToLower(strings.TrimSpace(cfg.LogFormat)) == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
