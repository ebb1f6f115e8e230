package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"jotion/internal/config"
	"jotion/internal/domain/services"
	"jotion/internal/repository/postgres"
	"jotion/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	ownerID := flag.String("owner", "", "Owner ID to seed documents for (required)")
	dropTable := flag.Bool("drop-table", false, "Drop the documents table before seeding (fresh start)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTable {
		log.Fatalf("BLOCKED: Cannot run --drop-table in production environment")
	}

	if *ownerID == "" {
		log.Fatalf("--owner is required")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTable {
		log.Println("Dropping documents table...")
		if err := dropTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop table: %v", err)
		}
	}

	if err := postgres.Migrate(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)
	docService := service.NewDocumentService(docRepo, txManager, nil, cfg.MaxTraversalDepth, logger)

	if err := seedDocuments(ctx, docService, *ownerID); err != nil {
		log.Fatalf("Failed to seed documents: %v", err)
	}

	log.Println("Seeding complete")
}

// seedDocuments creates a small demo page tree for the given owner
func seedDocuments(ctx context.Context, docService services.DocumentService, ownerID string) error {
	tree := []struct {
		title    string
		children []string
	}{
		{title: "Getting Started", children: []string{"Keyboard Shortcuts", "Importing Notes"}},
		{title: "Projects", children: []string{"Roadmap", "Meeting Notes"}},
		{title: "Reading List", children: nil},
	}

	for _, node := range tree {
		root, err := docService.Create(ctx, ownerID, &services.CreateDocumentRequest{Title: node.title})
		if err != nil {
			return fmt.Errorf("create %q: %w", node.title, err)
		}
		for _, childTitle := range node.children {
			_, err := docService.Create(ctx, ownerID, &services.CreateDocumentRequest{
				Title:    childTitle,
				ParentID: &root.ID,
			})
			if err != nil {
				return fmt.Errorf("create %q: %w", childTitle, err)
			}
		}
	}

	return nil
}

// dropTables drops the documents table for a clean slate
func dropTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	_, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tables.Documents))
	return err
}
