package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/doodlesbykumbi/petition-in-go/pkg/audit"
	"github.com/doodlesbykumbi/petition-in-go/pkg/auth"
	"github.com/doodlesbykumbi/petition-in-go/pkg/config"
	"github.com/doodlesbykumbi/petition-in-go/pkg/credential"
	"github.com/doodlesbykumbi/petition-in-go/pkg/db"
	"github.com/doodlesbykumbi/petition-in-go/pkg/listing"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/endpoints"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/middleware"
	gormstore "github.com/doodlesbykumbi/petition-in-go/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/petition-in-go/pkg/session"
	"github.com/doodlesbykumbi/petition-in-go/pkg/views"
)

const shutdownTimeout = 10 * time.Second

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the petition application server",
	Long: `Run the petition application server

To run the server requires DATABASE_URL and SESSION_SECRET, from the
environment, a .env file or petition.yml.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Configuration problems are fatal before anything is opened
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind-address") {
			cfg.BindAddress, _ = cmd.Flags().GetString("bind-address")
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration:\n%v\n", err)
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(cfg.DatabaseURL); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runServer(ctx, cfg); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().IntP("port", "p", 3000, "server listen port (overrides PORT)")
	serverCmd.Flags().StringP("bind-address", "b", "0.0.0.0", "server bind address (overrides PETITION_BIND_ADDRESS)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func runServer(ctx context.Context, cfg *config.PetitionConfig) error {
	database, err := db.Connect(db.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    20,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return err
	}

	principals := gormstore.NewPrincipalsStore(database)
	signatures := gormstore.NewSignaturesStore(database)

	g, ctx := errgroup.WithContext(ctx)

	sessions, err := openSessionStore(ctx, g, cfg)
	if err != nil {
		return err
	}

	auditStore, err := audit.NewStore(cfg.AuditDatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open audit database: %w", err)
	}
	defer func() { _ = auditStore.Close() }()
	auditor := audit.New(audit.NewLogger(), auditStore)

	credentials, err := credential.NewStore(principals)
	if err != nil {
		return err
	}
	limiter := auth.NewLimiter(cfg.LoginMaxAttempts, auth.DefaultLoginWindow, auth.DefaultLockDuration)
	g.Go(func() error {
		limiter.Run(ctx, time.Minute)
		return nil
	})
	gate := auth.NewGate(
		credentials,
		principals,
		sessions,
		auth.WithLimiter(limiter),
		auth.WithAuditor(auditor),
	)

	lister, err := listing.NewLister(signatures, cfg.BaseURL)
	if err != nil {
		return err
	}

	renderer, err := openRenderer(ctx, g, cfg.TemplatesDir)
	if err != nil {
		return err
	}

	s := server.NewServer(server.Options{
		Addr:             cfg.Addr(),
		Gate:             gate,
		Deletion:         auth.NewDeletionGate(gate, signatures),
		Lister:           lister,
		Signatures:       signatures,
		Health:           gormstore.NewHealthStore(database),
		Views:            renderer,
		Cookies:          middleware.NewCookies([]byte(cfg.SessionSecret), cfg.CookieSecure, cfg.SessionLifetime()),
		RequestTimeout:   cfg.RequestDeadline(),
		ListLimitDefault: cfg.ListLimitDefault,
		ListLimitMax:     cfg.ListLimitMax,
	})
	endpoints.RegisterAll(s)

	g.Go(func() error {
		log.Printf("Running server at http://%s...\n", cfg.Addr())
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openSessionStore returns the configured session backend. The memory store
// gets a background sweeper; expired entries are otherwise only evicted when
// they are looked up again.
func openSessionStore(ctx context.Context, g *errgroup.Group, cfg *config.PetitionConfig) (session.Store, error) {
	ttl := cfg.SessionLifetime()

	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis_url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		g.Go(func() error {
			<-ctx.Done()
			return client.Close()
		})
		log.Printf("Using redis session store (ttl %s)", ttl)
		return session.NewRedisStore(client, ttl), nil
	default:
		store := session.NewMemoryStore(ttl)
		g.Go(func() error {
			store.Run(ctx, ttl)
			return nil
		})
		log.Printf("Using in-memory session store (ttl %s)", ttl)
		return store, nil
	}
}

// openRenderer uses the embedded templates unless a template directory is
// configured, in which case templates are reloaded on change.
func openRenderer(ctx context.Context, g *errgroup.Group, dir string) (*views.Renderer, error) {
	if dir == "" {
		return views.New()
	}

	renderer, err := views.NewFromDir(dir)
	if err != nil {
		return nil, err
	}
	g.Go(func() error {
		if err := renderer.Watch(ctx); err != nil {
			log.Printf("Template watcher stopped: %v", err)
		}
		return nil
	})
	log.Printf("Serving templates from %s", dir)
	return renderer, nil
}
