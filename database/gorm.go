package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahilchouksey/college-hub/config"
	"github.com/sahilchouksey/college-hub/model"
	"github.com/sahilchouksey/college-hub/utils/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

type GORMStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// StartGORM opens the database selected by DB_DRIVER.
func StartGORM(env *config.EnvironmentVariable, log *logger.Logger) (*GORMStore, error) {
	gormLogger := gormlogger.Default.LogMode(gormlogger.Info)
	if env.IsProduction() {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	var dialector gorm.Dialector
	switch env.DB_DRIVER {
	case config.DriverPostgres:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			env.DB_HOST,
			env.DB_USER_NAME,
			env.DB_PASSWORD,
			env.DB_NAME,
			env.DB_PORT,
			env.DB_SSL_MODE,
		)
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(SQLiteDSN(env.DB_PATH))
	}

	store, err := Open(dialector, gormLogger, log)
	if err != nil {
		log.Error("unable to connect to database", "driver", env.DB_DRIVER, "error", err)
		return nil, err
	}

	log.Info("connected to database", "driver", env.DB_DRIVER)
	return store, nil
}

// SQLiteDSN enables foreign keys (needed for cascading deletes) and a
// busy timeout on a SQLite path or URI.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// Open connects through dialector and configures the pool.
func Open(dialector gorm.Dialector, gormLogger gormlogger.Interface, log *logger.Logger) (*GORMStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if dialector.Name() == "sqlite" {
		// One writer at a time; also keeps in-memory databases alive.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return &GORMStore{db: db, log: log}, nil
}

// Init migrates the schema and creates the profile row if missing.
func (s *GORMStore) Init() error {
	s.log.Debug("running AutoMigrate")

	err := s.db.AutoMigrate(
		&model.Profile{},
		&model.Course{},
		&model.Conversation{},
		&model.Message{},
		&model.CollegeMatch{},
		&model.Application{},
	)
	if err != nil {
		s.log.Error("AutoMigrate failed", "error", err)
		return err
	}

	err = s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Profile{ID: model.ProfileID}).Error
	if err != nil {
		return fmt.Errorf("failed to create profile row: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance
func (s *GORMStore) GetDB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
