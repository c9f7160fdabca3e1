package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	authapi "github.com/goliatone/go-auth-api"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("authapi"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	log := lgr.GetLogger("app")

	configPath := os.Getenv("AUTHAPI_CONFIG")
	if configPath == "" {
		configPath = "config.yml"
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Error("unable to load configuration", "error", err)
		os.Exit(1)
	}

	fmt.Println(print.MaybeHighlightJSON(cfg.Redacted()))

	if cfg.Auth.SigningKey == "" {
		// Keep booting: /login answers missing_key (500) until the secret
		// is provisioned, matching the configuration-error contract.
		log.Warn("signing key not configured, logins will fail with missing_key")
	}

	ctx := context.Background()

	db, err := openDB(ctx, cfg.Persistence.DSN)
	if err != nil {
		log.Error("unable to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := authapi.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		log.Error("invalid repository manager", "error", err)
		os.Exit(1)
	}

	if cfg.Persistence.Seed {
		if err := seedUsers(ctx, repo); err != nil {
			log.Error("unable to seed demo users", "error", err)
			os.Exit(1)
		}
		log.Info("demo users seeded")
	}

	directory := authapi.NewUserDirectory(repo.Users()).
		WithLogger(lgr.GetLogger("auth:directory"))

	auther := authapi.NewAuthenticator(directory, cfg.GetAuth()).
		WithLogger(lgr.GetLogger("auth:service"))

	app := fiber.New(fiber.Config{
		AppName: "go-auth-api",
	})

	authapi.RegisterAuthRoutes(app,
		authapi.WithAuther(auther),
		authapi.WithControllerLogger(lgr.GetLogger("auth:http")),
	)

	// Demo of the route protection middleware; /me itself handles the
	// token explicitly so it can answer user_error on stale subjects.
	app.Get("/ping",
		authapi.Protected(authapi.ProtectedConfig{
			Validator:  auther.TokenService(),
			ContextKey: cfg.Auth.ContextKey,
			AuthScheme: cfg.Auth.AuthScheme,
		}),
		func(c *fiber.Ctx) error {
			claims, _ := authapi.ClaimsFromContext(c, cfg.Auth.ContextKey)
			return c.JSON(fiber.Map{"pong": claims.Subject()})
		},
	)

	go func() {
		if err := app.Listen(cfg.Server.Addr); err != nil {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("serving", "addr", cfg.Server.Addr, "issuer", cfg.Auth.Issuer)

	WaitExitSignal()

	if err := app.Shutdown(); err != nil {
		log.Error("shutdown error", "error", err)
	}
}

func openDB(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*authapi.User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

func seedUsers(ctx context.Context, repo authapi.RepositoryManager) error {
	handler := authapi.NewRegisterUserHandler(repo)

	demo := []authapi.RegisterUserMessage{
		{
			Username:    "admin",
			Email:       "admin@example.com",
			DisplayName: "Site Admin",
			Roles:       []string{"administrator"},
			Password:    "admin-password",
			UseHashid:   true,
		},
		{
			Username:    "editor",
			Email:       "editor@example.com",
			DisplayName: "Content Editor",
			Roles:       []string{"editor", "author"},
			Password:    "editor-password",
			UseHashid:   true,
		},
	}

	for _, msg := range demo {
		if _, err := repo.Users().GetByUsername(ctx, msg.Username); err == nil {
			continue
		}
		if _, err := handler.Execute(ctx, msg); err != nil {
			return err
		}
	}

	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
