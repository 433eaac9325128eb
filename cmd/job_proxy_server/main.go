package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sebastiensimon1/hiring-cafe/configs"
	"github.com/sebastiensimon1/hiring-cafe/internal/inmemory_cache"
	"github.com/sebastiensimon1/hiring-cafe/internal/search_server"
	"github.com/sebastiensimon1/hiring-cafe/internal/search_server/handlers"
	"github.com/sebastiensimon1/hiring-cafe/internal/search_server/service"
	"github.com/sebastiensimon1/hiring-cafe/internal/throttle"
	"github.com/sebastiensimon1/hiring-cafe/internal/upstream"
)

func main() {
	// Создаем корневой контекст
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// .env не обязателен, в контейнере переменные приходят из окружения
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// загружаем конфиг (yml по CONFIG_PATH поверх дефолтов)
	cfg, err := configs.LoadAppConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// создаём гейт исходящих запросов на hiring.cafe
	gate, err := throttle.New(cfg.Throttle)
	if err != nil {
		log.Fatalf("Failed to create throttle: %v", err)
	}

	// создаём кэш результатов
	cache, err := inmemory_cache.NewInmemoryTTLCache(cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to create cache: %v", err)
	}
	defer cache.Stop()

	// создаём клиента внешнего сервиса
	client, err := upstream.NewHiringCafeClient(cfg.Upstream, gate)
	if err != nil {
		log.Fatalf("Failed to create upstream client: %v", err)
	}

	// создаём сервисный слой и хэндлеры
	searchService := service.NewSearchService(client, cache, cfg.Cache.TTL, cfg.Upstream.SiteURL)
	searchHandler := handlers.NewSearchHandler(searchService)

	// Создаем HTTP-сервер
	server, err := search_server.NewServer(cfg.Server, searchHandler)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// создаём канал, который будет реагировать на системные сигналы
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Запуск сервера
	go func() {
		fmt.Printf("🚀 HTTP сервер запускается на %s\n", cfg.Server.Addr())
		if err := server.Run(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Ожидание сигнала
	<-sigChan
	fmt.Println("\n🛑 Остановка сервера...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	// Остановка сервера
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	fmt.Println("👋 Сервер остановлен")
}
