package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"musicbox/internal/auth"
	"musicbox/internal/catalog"
	"musicbox/internal/kvstore"
	"musicbox/internal/music"
	"musicbox/internal/player"
	"musicbox/internal/playlist"
	"musicbox/internal/realtime"
	"musicbox/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("musicbox: no .env file, using process env")
	}

	port := getenv("PORT", "3001")
	dsn := getenv("DATABASE_URL", "")
	redisURL := getenv("REDIS_URL", "")
	audioDBBase := getenv("AUDIODB_BASE_URL", "")
	corsOrigin := getenv("CORS_ALLOWED_ORIGIN", "*")
	staticDir := getenv("STATIC_DIR", "")
	autoRegister := getenv("AUTO_REGISTER", "true") == "true"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Persistent state goes to Postgres when configured, otherwise it lives
	// in memory and dies with the process.
	var persistent kvstore.Store = kvstore.NewMemoryStore()
	if dsn != "" {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			log.Fatalf("musicbox: pg: %v", err)
		}
		defer pool.Close()
		if err := kvstore.AutoMigrate(ctx, pool); err != nil {
			log.Fatalf("musicbox: migrate: %v", err)
		}
		persistent = kvstore.NewPostgresStore(pool)
	} else {
		log.Printf("musicbox: DATABASE_URL not set, state is in-memory only")
	}

	var rdb *redis.Client
	var session kvstore.Store = kvstore.NewMemoryStore()
	if redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("musicbox: redis: %v", err)
		}
		rdb = redis.NewClient(opt)
		defer rdb.Close()
		session = kvstore.NewRedisStore(rdb, "session:")
	}

	provider := catalog.NewProvider(catalog.NewAudioDBClient(audioDBBase))
	authStore := auth.NewStore(persistent, session, auth.Config{AutoRegister: autoRegister})
	playlists := playlist.NewStore(persistent)
	engine := player.NewEngine(nil)
	musicStore := music.NewStore(provider, playlists)

	hub := realtime.NewHub()
	go hub.Run(ctx)
	events := realtime.NewBroadcaster(hub, rdb)
	go events.RunSubscriber(ctx)

	ticker := player.NewTicker(engine, time.Second)
	ticker.Bind()
	defer ticker.Stop()
	engine.SetOnChange(func(st player.State) {
		events.Publish(ctx, "playback_state", st)
	})

	// warm the default playlist before traffic arrives
	go func() {
		st := musicStore.LoadPopular(ctx)
		log.Printf("musicbox: default playlist seeded with %d tracks", len(st.PopularTracks))
	}()

	srv := server.NewServer(authStore, playlists, engine, musicStore, hub, events)
	r := srv.Router(
		middleware.Logger,
		middleware.Recoverer,
		server.CORSMiddleware(corsOrigin),
	)
	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}

	httpSrv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("musicbox: listening on :%s", port)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("musicbox: listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("musicbox: shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("musicbox: shutdown: %v", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
