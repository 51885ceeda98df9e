// Package backend selects a storage engine from configuration and manages
// scoped sessions on it.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/adfharrison1/bookshelf/pkg/backend/memory"
	"github.com/adfharrison1/bookshelf/pkg/backend/mongo"
	"github.com/adfharrison1/bookshelf/pkg/backend/sqlite"
	"github.com/adfharrison1/bookshelf/pkg/config"
	"github.com/adfharrison1/bookshelf/pkg/domain"
	"github.com/adfharrison1/bookshelf/pkg/storage"
)

// NewConnector builds the connector for cfg.Backend.
func NewConnector(cfg *config.Config) (domain.Connector, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		var opts []storage.StorageOption
		if cfg.DataFile != "" {
			opts = append(opts, storage.WithDataFile(cfg.DataFile))
		}
		if cfg.BackgroundSave > 0 {
			opts = append(opts, storage.WithBackgroundSave(cfg.BackgroundSave))
		}
		return memory.NewConnector(cfg.Collection, opts...), nil
	case config.BackendSQLite:
		return sqlite.NewConnector(cfg.SQLitePath, cfg.Collection), nil
	case config.BackendMongo:
		return mongo.NewConnector(mongo.Options{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDatabase,
			Collection:     cfg.Collection,
			ConnectTimeout: cfg.ConnectTimeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// WithSession opens a session, runs fn with it and always closes the
// session afterwards, including when fn fails or panics. A close error is
// returned only when fn itself succeeded.
func WithSession(ctx context.Context, connector domain.Connector, fn func(context.Context, domain.Session) error) (err error) {
	sess, err := connector.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		// Close with a fresh context so a cancelled run still releases the session.
		if cerr := sess.Close(context.WithoutCancel(ctx)); cerr != nil {
			zap.S().Errorf("Failed to close session: %v", cerr)
			if err == nil {
				err = fmt.Errorf("close session: %w", cerr)
			}
		}
	}()
	return fn(ctx, sess)
}
