package db

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations brings the schema at dsn up to the newest migration found in
// migrationsPath and returns the resulting version.
func RunMigrations(dsn, migrationsPath string, log *slog.Logger) (uint, error) {
	if dsn == "" {
		return 0, errors.New("DSN для миграций не может быть пустым")
	}
	if migrationsPath == "" {
		return 0, errors.New("путь к файлам миграций не может быть пустым")
	}

	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать экземпляр мигратора: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn("ошибка при закрытии мигратора",
				slog.Any("source_error", srcErr),
				slog.Any("db_error", dbErr))
		}
	}()

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Info("схема уже актуальна")
	case err != nil:
		return 0, fmt.Errorf("ошибка при выполнении миграций: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("ошибка при проверке версии миграций: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("миграция версии %d в состоянии dirty, требуется ручное исправление", version)
	}
	return version, nil
}
