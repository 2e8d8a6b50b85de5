package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/contact-manager/internal/config"
	"gitlab.com/dirk.krummacker/contact-manager/internal/contact"
	"gitlab.com/dirk.krummacker/contact-manager/internal/credential"
	"gitlab.com/dirk.krummacker/contact-manager/internal/database"
	"gitlab.com/dirk.krummacker/contact-manager/internal/logging"
	"gitlab.com/dirk.krummacker/contact-manager/internal/service"
	"gitlab.com/dirk.krummacker/contact-manager/internal/session"
	"go.uber.org/zap"
)

// sweepInterval is how often expired sessions are dropped from the in-memory store.
const sweepInterval = 10 * time.Minute

// Usage examples on the command line:
// > PORT=8080 DATA_DIR=/var/lib/contacts GIN_LOGGING=OFF go run main.go
// > STORAGE_BACKEND=mysql DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 SESSION_BACKEND=redis go run main.go
func main() {
	options, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Println("could not read configuration", err)
		os.Exit(2)
	}
	logger, err := logging.New(options.LogLevel)
	if err != nil {
		fmt.Println("could not create logger", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(options, logger); err != nil {
		logger.Fatal("service stopped", zap.Error(err))
	}
}

func run(options *config.Options, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	contacts, credentials, closeStorage, err := openStorage(options, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	store, closeSessions, err := openSessions(ctx, options, logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	gin.SetMode(options.GinMode)
	server := service.NewServer(contacts, credentials,
		session.NewManager(store, options.SessionTTL, options.CookieSecure, logger), logger)
	router := server.SetupHttpRouter(options.RequestLogging)
	logger.Info("starting contact manager",
		zap.String("addr", options.Addr),
		zap.String("storage", options.StorageBackend),
		zap.String("sessions", options.SessionBackend))
	return router.Run(options.Addr)
}

// openStorage creates the contact and credential stores for the configured backend. The
// returned function releases the backend.
func openStorage(options *config.Options, logger *zap.Logger) (*contact.Store, *credential.Store, func(), error) {
	switch options.StorageBackend {
	case config.BackendMySQL:
		db, err := database.CreateDatabase(options.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("using mysql storage", zap.String("host", options.Database.Host), zap.String("database", options.Database.Name))
		return contact.NewStore(contact.NewSQLRepository(db)),
			credential.NewStore(credential.NewSQLRepository(db), options.BcryptCost),
			func() { db.Close() },
			nil
	default:
		logger.Info("using file storage", zap.String("dir", options.DataDir))
		return contact.NewStore(contact.NewFileRepository(filepath.Join(options.DataDir, "data"))),
			credential.NewStore(credential.NewFileRepository(filepath.Join(options.DataDir, "users.yml")), options.BcryptCost),
			func() {},
			nil
	}
}

// openSessions creates the session store for the configured backend. The returned function
// releases the backend.
func openSessions(ctx context.Context, options *config.Options, logger *zap.Logger) (session.Store, func(), error) {
	if options.SessionBackend == config.SessionRedis {
		rdb, err := session.NewRedisClient(ctx, options.RedisAddr, options.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using redis sessions", zap.String("addr", options.RedisAddr))
		return session.NewRedisStore(rdb, options.SessionTTL),
			func() {
				if err := rdb.Close(); err != nil {
					logger.Warn("could not close redis client", zap.Error(err))
				}
			},
			nil
	}
	store := session.NewMemoryStore(options.SessionTTL)
	store.StartSweeper(ctx, sweepInterval)
	return store, func() {}, nil
}
