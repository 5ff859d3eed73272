package main

import (
	"bank-ledger/internal/app"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := app.NewApp()
	if err != nil {
		log.Fatalf("Ошибка создания приложения: %v", err)
	}

	if err := app.BuildRuntime(ctx); err != nil {
		app.Close()
		log.Fatalf("Ошибка загрузки входных данных: %v", err)
	}
	if err := app.BuildReportLayer(); err != nil {
		app.Close()
		log.Fatalf("Ошибка сборки report API: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Ошибка при работе приложения: %v", err)
	}
}
