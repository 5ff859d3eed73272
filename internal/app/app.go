package app

import (
	"bank-ledger/internal/api/handlers"
	"bank-ledger/internal/command"
	"bank-ledger/internal/config"
	"bank-ledger/internal/db"
	"bank-ledger/internal/kafka"
	"bank-ledger/internal/models"
	"bank-ledger/internal/server"
	"bank-ledger/internal/service"
	"bank-ledger/internal/storage/file"
	"bank-ledger/internal/storage/postgres"
	"bank-ledger/pkg/logger"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	log           *slog.Logger
	logFile       *logger.LoggerWithFile
	cfg           *config.Config
	pool          *pgxpool.Pool
	rateLoader    *service.RateLoader
	kafkaProducer kafka.Producer
	publisher     *service.EventPublisher
	server        *server.Server
	input         *models.Input
	runtime       *service.Runtime
}

func NewApp() (*App, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации конфига: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	loggerWithFile, err := logger.NewLoggerWithFile(cfg.LogFile, level)
	if err != nil {
		return nil, err
	}
	log := loggerWithFile.Logger
	log.Info("инициализация приложения",
		slog.String("input", cfg.InputPath),
		slog.String("rates_source", cfg.RatesSource))

	a := &App{
		log:     log,
		logFile: loggerWithFile,
		cfg:     cfg,
	}

	if cfg.UsePostgres() {
		if err := a.connectDB(); err != nil {
			a.Close()
			return nil, err
		}
	}

	if cfg.Kafka.Enabled {
		log.Info("инициализация kafka producer", slog.Any("brokers", cfg.Kafka.Brokers))
		a.kafkaProducer, err = kafka.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("ошибка инициализации kafka: %w", err)
		}
	} else {
		log.Info("kafka отключен в конфигурации")
		a.kafkaProducer = kafka.NewNoOpProducer(log)
	}
	a.publisher = service.NewEventPublisher(a.kafkaProducer, max(cfg.Kafka.Workers, 1), max(cfg.Kafka.Buffer, 1), cfg.Kafka.Timeout, log)

	return a, nil
}

func (a *App) connectDB() error {
	if a.cfg.DB.Migrate {
		a.log.Info("выполнение миграций базы данных")
		version, err := db.RunMigrations(a.cfg.DB.MigrationURL(), a.cfg.DB.MigrationsPath, a.log)
		if err != nil {
			return fmt.Errorf("ошибка выполнения миграций: %w", err)
		}
		a.log.Info("миграции успешно применены", slog.Uint64("version", uint64(version)))
	}

	pool, err := db.NewPool(context.Background(), a.cfg.DB.DSN(), db.DefaultPoolConfig("bank-ledger"), a.log)
	if err != nil {
		return fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}
	a.pool = pool
	a.rateLoader = service.NewRateLoader(postgres.NewRateRepository(), service.NewPgxTxManager(pool), a.log)
	return nil
}

// BuildRuntime loads the input and the rate snapshot and creates the run's Runtime.
func (a *App) BuildRuntime(ctx context.Context) error {
	in, err := file.LoadInput(a.cfg.InputPath)
	if err != nil {
		return err
	}
	a.input = in

	rates := in.ExchangeRates
	if a.rateLoader != nil {
		if len(rates) > 0 {
			if err := a.rateLoader.Seed(ctx, rates); err != nil {
				return err
			}
		}
		if rates, err = a.rateLoader.Snapshot(ctx); err != nil {
			return err
		}
	}

	a.runtime = service.NewRuntime(in.Users, rates, a.publisher, a.log)
	a.log.Info("runtime собран",
		slog.Int("users", len(in.Users)),
		slog.Int("rates", len(rates)),
		slog.Int("commands", len(in.Commands)))
	return nil
}

// BuildReportLayer registers the read-only report API. It is a no-op when
// the HTTP server is disabled.
func (a *App) BuildReportLayer() error {
	if !a.cfg.HTTP.Enabled {
		return nil
	}
	if a.runtime == nil {
		err := errors.New("runtime not initialized, call BuildRuntime first")
		a.log.Error(err.Error())
		return err
	}

	a.server = server.NewServer(a.cfg.HTTP.Port, a.log)

	reportHandler := handlers.NewReportHandler(a.runtime.Reports)
	exchangeHandler := handlers.NewExchangeHandler(a.runtime.Exchange)

	a.server.Router.Get("/api/v1/users", reportHandler.GetUsers)
	a.server.Router.Get("/api/v1/users/{email}/transactions", reportHandler.GetTransactions)
	a.server.Router.Get("/api/v1/accounts/{iban}/report", reportHandler.GetReport)
	a.server.Router.Get("/api/v1/accounts/{iban}/spendings", reportHandler.GetSpendings)
	a.server.Router.Get("/api/v1/proposals", reportHandler.GetProposals)
	a.server.Router.Get("/api/v1/exchange/rates", exchangeHandler.GetExchangeRates)
	a.server.Router.Get("/api/v1/exchange/convert", exchangeHandler.Convert)

	a.log.Info("слой 'report' собран и маршруты зарегистрированы", slog.String("addr", a.server.Addr()))
	return nil
}

// Run replays the commands, writes the output file and, when enabled, serves
// the report API until ctx is cancelled. Resources are released on return.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if a.runtime == nil {
		return errors.New("runtime not initialized, call BuildRuntime first")
	}

	dispatcher := command.NewDispatcher(a.runtime, a.log)
	out, err := dispatcher.Run(ctx, a.input.Commands)
	if err != nil {
		return fmt.Errorf("прогон команд прерван: %w", err)
	}

	if err := file.SaveOutput(a.cfg.OutputPath, out); err != nil {
		return err
	}
	a.log.Info("результат записан", slog.String("path", a.cfg.OutputPath), slog.Int("entries", len(out)))

	if a.server == nil {
		return nil
	}

	a.log.Info("сервер запускается")
	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("ошибка запуска сервера: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		a.log.Info("получен сигнал завершения")
	}
	return nil
}

// Close stops the server and publisher and releases every connection. It
// is safe to call on a partially built App.
func (a *App) Close() {
	a.log.Info("приложение останавливается")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.log.Error("ошибка при остановке http сервера", slog.String("error", err.Error()))
		}
	}

	if a.publisher != nil {
		a.log.Info("остановка event publisher")
		if err := a.publisher.Shutdown(ctx); err != nil {
			a.log.Error("ошибка при остановке event publisher", slog.String("error", err.Error()))
		}
	}

	if a.kafkaProducer != nil {
		if err := a.kafkaProducer.Close(); err != nil {
			a.log.Error("ошибка при закрытии kafka producer", slog.String("error", err.Error()))
		}
	}

	if a.pool != nil {
		a.log.Info("закрытие соединения с базой данных")
		a.pool.Close()
	}

	a.log.Info("приложение остановлено")
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			a.log.Error("ошибка при закрытии файла логов", slog.String("error", err.Error()))
		}
	}
}
