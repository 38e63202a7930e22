package main

import (
	"MatchOpsApi/internal/data"
	"MatchOpsApi/internal/gamehub"
	"MatchOpsApi/internal/jsonlog"
	"MatchOpsApi/internal/lineup"
	"MatchOpsApi/internal/mailer"
	"context"
	"database/sql"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type config struct {
	version string
	port    int
	env     string
	db      struct {
		dsn          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  string
	}
	limiter struct {
		rps     float64
		burst   int
		enabled bool
	}
	smtp struct {
		host     string
		port     int
		username string
		password string
		sender   string
	}
	cors struct {
		trustedOrigins []string
	}
	lineup  lineup.Config
	session struct {
		idleTimeout   time.Duration
		sweepSchedule string
	}
}

type userStore interface {
	GetForToken(ctx context.Context, tokenScope, tokenPlaintext string) (*data.User, error)
}

type permissionStore interface {
	GetAllForUser(ctx context.Context, userID int64) (data.Permissions, error)
}

type application struct {
	logger      *jsonlog.Logger
	config      config
	users       userStore
	permissions permissionStore
	hubs        *gamehub.HubModel
	upgrader    websocket.Upgrader
}

func main() {
	// A missing .env is fine; flags and the environment still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
		os.Exit(1)
	}

	var cfg config

	// Server Config
	cfg.version = "1.0.0"
	flag.IntVar(&cfg.port, "port", envInt("MATCHOPS_PORT", 8008), "http server port")
	flag.StringVar(&cfg.env, "env", envString("MATCHOPS_ENV", "development"),
		"Environment (development|staging|production)")

	// Database Config
	flag.StringVar(&cfg.db.dsn, "db-dsn", envString("MATCHOPS_DB_DSN", ""), "DB connection string")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.IntVar(&cfg.db.maxIdleConns, "db-max-idle-conns", 25, "PostgreSQL max idle connections")
	flag.StringVar(&cfg.db.maxIdleTime, "db-max-idle-time", "15m",
		"PostgreSQL max connection idle time")

	// Limiter Config
	flag.Float64Var(&cfg.limiter.rps, "limiter-rps", 4, "Rate limiter maximum requests per second")
	flag.IntVar(&cfg.limiter.burst, "limiter-burst", 8, "Rate limiter maximum burst")
	flag.BoolVar(&cfg.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")

	// SMTP Config
	flag.StringVar(&cfg.smtp.host, "smtp-host", envString("MATCHOPS_SMTP_HOST", "localhost"),
		"SMTP host")
	flag.IntVar(&cfg.smtp.port, "smtp-port", envInt("MATCHOPS_SMTP_PORT", 25), "SMTP port")
	flag.StringVar(&cfg.smtp.username, "smtp-username", envString("MATCHOPS_SMTP_USERNAME", ""),
		"SMTP username")
	flag.StringVar(&cfg.smtp.password, "smtp-password", envString("MATCHOPS_SMTP_PASSWORD", ""),
		"SMTP password")
	flag.StringVar(&cfg.smtp.sender, "smtp-sender",
		envString("MATCHOPS_SMTP_SENDER", "MatchOps <no-reply@matchops.local>"), "SMTP sender")

	// CORS Config
	flag.Func("cors-trusted-origins", "Trusted CORS origins (space separated)", func(val string) error {
		origins := strings.Fields(val)
		if i := slices.Index(origins, "*"); i != -1 {
			return errors.New("cannot set CORS trusted origin to \"*\" with authorization header" +
				" in cross-origin requests")
		}
		cfg.cors.trustedOrigins = origins
		return nil
	})

	// Lineup Config
	defaults := lineup.DefaultConfig()
	flag.IntVar(&cfg.lineup.MaxStarters, "lineup-max-starters", defaults.MaxStarters,
		"Maximum players in the starting lineup")
	flag.IntVar(&cfg.lineup.MaxBench, "lineup-max-bench", defaults.MaxBench,
		"Bench size above which the lineup is flagged")

	// Session Config
	flag.DurationVar(&cfg.session.idleTimeout, "session-idle-timeout", 2*time.Hour,
		"Close live sessions with a stopped clock after this long without operator activity")
	flag.StringVar(&cfg.session.sweepSchedule, "session-sweep-schedule", "0 * * * * *",
		"Cron schedule (with seconds) of the idle session sweep")

	// Version
	displayVersion := flag.Bool("version", false, "Show API version and immediately exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version: %s\n", cfg.version)
		os.Exit(0)
	}

	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	db, err := openDB(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	models := data.NewModels(db)
	hubs := gamehub.NewHubModel(
		gamehub.NewStores(&models),
		mailer.New(cfg.smtp.host, cfg.smtp.port, cfg.smtp.username, cfg.smtp.password,
			cfg.smtp.sender),
		logger,
		gamehub.Config{
			Lineup:        cfg.lineup,
			IdleTimeout:   cfg.session.idleTimeout,
			SweepSchedule: cfg.session.sweepSchedule,
		},
	)
	if err = hubs.StartSweeper(); err != nil {
		logger.PrintFatal(err, nil)
	}

	expvar.NewString("version").Set(cfg.version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("database", expvar.Func(func() any {
		return db.Stats()
	}))
	expvar.Publish("timestamp", expvar.Func(func() any {
		return time.Now().Unix()
	}))
	expvar.Publish("live_sessions", expvar.Func(func() any {
		return hubs.Len()
	}))

	app := &application{
		logger:      logger,
		config:      cfg,
		users:       &models.Users,
		permissions: &models.Permissions,
		hubs:        hubs,
	}
	app.upgrader = app.newUpgrader()

	err = app.serve()
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}

func openDB(cfg config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.db.maxOpenConns)
	db.SetMaxIdleConns(cfg.db.maxIdleConns)
	duration, err := time.ParseDuration(cfg.db.maxIdleTime)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxIdleTime(duration)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func envString(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return i
}
