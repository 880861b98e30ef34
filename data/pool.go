package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/amhafiz/timetabler/internal/projectpath"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	dbPool  *pgxpool.Pool
	poolErr error
	pgOnce  sync.Once
)

func init() {
	err := godotenv.Load(filepath.Join(projectpath.Root, ".env"))
	if err != nil {
		// the env may also be set by the process environment
		log.Warn("Could not load .env file: ", err)
	}
}

// NewPool hands out the process wide pool. A failed first attempt is
// remembered so later callers get the error back instead of a nil pool
func NewPool(ctx context.Context) (*pgxpool.Pool, error) {
	pgOnce.Do(func() {
		connString := os.Getenv("DB_CONN")
		pgPool, err := pgxpool.New(ctx, connString)
		if err != nil {
			log.Error(fmt.Errorf("Unable to create connection pool: %w", err))
			poolErr = err
			return
		}
		dbPool = pgPool
	})
	return dbPool, poolErr
}
