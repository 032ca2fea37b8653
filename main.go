package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Sagitta/internal/calc/batch"
	"Sagitta/internal/calc/chart"
	"Sagitta/internal/calc/frame"
	"Sagitta/internal/calc/importer"
	lens "Sagitta/internal/calc/lens"
	"Sagitta/internal/calc/report"
	"Sagitta/internal/calc/respond"
	"Sagitta/internal/config"
	"Sagitta/internal/history"
	"Sagitta/internal/logger"
	"Sagitta/internal/middleware"
	"Sagitta/internal/repo"

	"github.com/gorilla/mux"
)

//go:embed static
var staticFiles embed.FS

var wg sync.WaitGroup

// HandleList registers every route. store may be nil, in which case nothing
// is saved and /api/history is not served.
func HandleList(r *mux.Router, cfg config.Config, store *repo.PostgresRepository) {
	limiter := middleware.NewIPRateLimiter(cfg.RateLimit, cfg.RateBurst)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	lensH := &lens.Handler{}
	if store != nil {
		lensH.Store = store
	}
	frameH := &frame.Handler{}
	chartH := &chart.Handler{}
	reportH := &report.Handler{}
	batchH := &batch.Handler{}
	importH := &importer.Handler{}

	tools := api.PathPrefix("/tools/lens").Subrouter()
	tools.HandleFunc("/calc", lensH.Calc).Methods("POST")
	tools.HandleFunc("/radii", lensH.Radii).Methods("POST")
	tools.HandleFunc("/point", lensH.Point).Methods("POST")
	tools.HandleFunc("/frame", frameH.Calc).Methods("POST")
	tools.HandleFunc("/plot", chartH.Plot).Methods("POST")
	tools.HandleFunc("/section", chartH.Section).Methods("POST")
	tools.HandleFunc("/report/pdf", reportH.Generate).Methods("POST")
	tools.HandleFunc("/batch", batchH.Calc).Methods("POST")
	tools.HandleFunc("/import", importH.Import).Methods("POST")
	tools.HandleFunc("/export", importH.Export).Methods("POST")

	if store != nil {
		historyH := &history.Handler{Repo: store}
		api.HandleFunc("/history", historyH.List).Methods("GET")
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]any{"status": "ok", "history": store != nil})
	}).Methods("GET")

	site, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	r.PathPrefix("/").Handler(http.FileServer(http.FS(site)))
}

func openStore(ctx context.Context, url string) (*sql.DB, *repo.PostgresRepository, error) {
	if url == "" {
		return nil, nil, nil
	}
	db, err := repo.OpenDB(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	store := repo.NewPostgresRepository(db)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, store, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Setup(logger.Config{}).Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.Setup(logger.Config{Debug: cfg.Debug, Format: cfg.LogFormat})
	if err := lens.SetDefaultSamples(cfg.Samples); err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	db, store, err := openStore(dbCtx, cfg.DatabaseURL)
	dbCancel()
	if err != nil {
		log.Error("db", "err", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	} else {
		log.Info("DATABASE_URL not set, history disabled")
	}

	r := mux.NewRouter()
	HandleList(r, cfg, store)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           middleware.Logging(middleware.CORS(r)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("server.start", "addr", cfg.Addr, "tls", cfg.TLS())
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("server.shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server.shutdown", "err", err)
	}
	wg.Wait()
	log.Info("server.stopped")
}
