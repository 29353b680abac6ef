package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/petition-in-go/pkg/auth"
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

const (
	testSessionSecret = "integration-session-secret-0123"
	serverPort        = "18080" // Use a fixed port for testing
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB            *gorm.DB
	RawDB         *sql.DB
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string
	Cancel        context.CancelFunc
	ServerProcess *exec.Cmd
}

// NewTestContext creates a new test context with PostgreSQL testcontainer.
// Modes:
//   - Binary mode (default): Set PETITION_BINARY to the path of the petitionctl binary
//   - Inline mode: Set PETITION_INLINE=1 to run the server in-process (no binary needed)
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	inlineMode := os.Getenv("PETITION_INLINE") == "1"
	binaryPath := os.Getenv("PETITION_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either PETITION_BINARY or PETITION_INLINE=1 is required.\n\nBinary mode:\n  go build -o petitionctl ./cmd/petitionctl\n  INTEGRATION_TEST=1 PETITION_BINARY=$(pwd)/petitionctl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 PETITION_INLINE=1 go test -v ./test/integration/...")
	}

	if !inlineMode {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("PETITION_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("petition_test"),
		tcpostgres.WithUsername("petition"),
		tcpostgres.WithPassword("petition"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	database, err := db.Connect(db.Config{URL: connStr})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	rawDB, err := database.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	if err := runMigrations(rawDB, migrationsDir); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	serverURL := fmt.Sprintf("http://127.0.0.1:%s", serverPort)

	var serverProcess *exec.Cmd
	var cancel context.CancelFunc
	if inlineMode {
		cancel, err = startInlineServer(database, serverURL)
	} else {
		serverProcess, cancel, err = startBinary(binaryPath, connStr, serverURL)
	}
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to start server: %w", err)
	}

	if err := waitForServer(serverURL, 30*time.Second); err != nil {
		cancel()
		if serverProcess != nil && serverProcess.Process != nil {
			_ = serverProcess.Process.Kill()
		}
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return &TestContext{
		DB:            database,
		RawDB:         rawDB,
		Container:     pgContainer,
		ServerURL:     serverURL,
		DatabaseURL:   connStr,
		Cancel:        cancel,
		ServerProcess: serverProcess,
	}, nil
}

// startInlineServer wires the server in-process the same way petitionctl
// server does, with the in-memory session store
func startInlineServer(database *gorm.DB, serverURL string) (context.CancelFunc, error) {
	principals := gormstore.NewPrincipalsStore(database)
	signatures := gormstore.NewSignaturesStore(database)
	sessions := session.NewMemoryStore(session.DefaultTTL)

	credentials, err := credential.NewStore(principals)
	if err != nil {
		return nil, err
	}
	gate := auth.NewGate(credentials, principals, sessions)
	lister, err := listing.NewLister(signatures, serverURL)
	if err != nil {
		return nil, err
	}
	renderer, err := views.New()
	if err != nil {
		return nil, err
	}

	s := server.NewServer(server.Options{
		Addr:           "127.0.0.1:" + serverPort,
		Gate:           gate,
		Deletion:       auth.NewDeletionGate(gate, signatures),
		Lister:         lister,
		Signatures:     signatures,
		Health:         gormstore.NewHealthStore(database),
		Views:          renderer,
		Cookies:        middleware.NewCookies([]byte(testSessionSecret), false, session.DefaultTTL),
		RequestTimeout: 5 * time.Second,
	})
	endpoints.RegisterAll(s)

	listener, err := net.Listen("tcp", "127.0.0.1:"+serverPort)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Handler: s.Handler()}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("inline server stopped: %v", err)
		}
	}()

	return func() { _ = srv.Close() }, nil
}

// startBinary starts the petitionctl server binary
func startBinary(binaryPath, dbURL, serverURL string) (*exec.Cmd, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(context.Background())

	// Use --no-migrate since we already ran migrations in the test setup
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", serverPort)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"SESSION_SECRET="+testSessionSecret,
		"PETITION_BASE_URL="+serverURL,
		"PETITION_CONFIG_PATH="+os.TempDir(),
		"PETITION_DOTENV_PATH="+filepath.Join(os.TempDir(), "petition-integration.env"),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to start binary: %w", err)
	}

	return cmd, cancel, nil
}

// waitForServer polls /status until the server answers or the timeout passes
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/status")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Cancel != nil {
		tc.Cancel()
	}
	if tc.ServerProcess != nil && tc.ServerProcess.Process != nil {
		_ = tc.ServerProcess.Process.Kill()
		_ = tc.ServerProcess.Wait()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	paths := []string{
		"../..",
		"..",
		".",
	}

	for _, p := range paths {
		goMod := filepath.Join(p, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

// runMigrations applies the up migrations in filename order
func runMigrations(db *sql.DB, migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("migration %s: %w", filepath.Base(file), err)
		}
	}

	return nil
}
