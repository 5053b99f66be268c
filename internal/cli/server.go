package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"openliq/internal/app"
	"openliq/internal/config"
	"openliq/internal/domain"
	"openliq/internal/infra/memory"
	pgloader "openliq/internal/infra/postgres"
	redisinfra "openliq/internal/infra/redis"
	transport "openliq/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the coordinator.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia coordinator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	if pool != nil {
		loader = pgloader.NewQuizLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var catalog app.QuizCatalog
	if redisClient != nil {
		catalog = redisinfra.NewQuizCatalog(redisClient, loader, quizTTL)
	} else {
		catalog = memory.NewQuizCatalog(loader, quizTTL)
	}

	var store app.SessionStore
	if redisClient != nil {
		store = redisinfra.NewGameStore(redisClient, redisTTL)
	} else {
		store = memory.NewGameStore()
	}
	service := app.NewGameService(store, catalog, cfg.Game.QuestionSeconds)
	wsHandler := transport.NewWSHandler(service, transport.NewHub())

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia coordinator on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes provides the built-in quiz library; swap the loader for the
// Postgres-backed one by configuring a database URL.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"liebherr": {
			ID: "liebherr",
			Questions: []domain.Question{
				{Text: "Wann wurde Liebherr gegründet?", Options: []string{"1949", "1955", "1898", "1990"}, CorrectIndex: 0},
				{Text: "Welches Produkt ist typisch für Liebherr?", Options: []string{"Waschmaschinen", "Fahrräder", "Smartphones", "Kühlschränke"}, CorrectIndex: 3},
				{Text: "In welchem Land hat Liebherr seinen Hauptsitz?", Options: []string{"Schweiz", "Deutschland", "Österreich", "Italien"}, CorrectIndex: 1},
				{Text: "Liebherr ist bekannt für ?", Options: []string{"Lebensmittel", "Baumaschinen", "Software", "Bekleidung"}, CorrectIndex: 1},
				{Text: "Welche Liebherr Geselschaft ist die größter der Gruppe?", Options: []string{"Ehingen", "Oberopfingen", "Roßtock", "Bulle"}, CorrectIndex: 0},
			},
		},
		"it": {
			ID: "it",
			Questions: []domain.Question{
				{Text: "Was bedeutet CPU?", Options: []string{"Central Processing Unit", "Computer Personal Unit", "Central Print Unit", "Control Processing Unit"}, CorrectIndex: 0},
				{Text: "Was ist HTML?", Options: []string{"Programmiersprache", "Stylesheet", "Markup Language", "Datenbank"}, CorrectIndex: 2},
				{Text: "Welches Protokoll nutzt das Web?", Options: []string{"FTP", "SSH", "HTTP", "SMTP"}, CorrectIndex: 2},
				{Text: "Was ist Git?", Options: []string{"Versionskontrolle", "Programmiersprache", "Editor", "Betriebssystem"}, CorrectIndex: 0},
				{Text: "Welche Sprache läuft im Browser?", Options: []string{"Java", "C#", "JavaScript", "Python"}, CorrectIndex: 2},
			},
		},
	}
}
