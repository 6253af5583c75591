package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/meinhoongagan/ignite-call/logger"
)

var DB *gorm.DB

func GetDB() *gorm.DB {
	return DB
}

// Init connects to postgres and stores the handle in DB. Migrations are not run.
func Init(databaseURL string) error {
	conn, err := Open(postgres.Open(databaseURL))
	if err != nil {
		return err
	}
	DB = conn
	logger.Log.Info().Msg("database connection established")
	return nil
}

// Open builds the gorm handle used by the server on top of any dialector.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	conn, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLogger{},
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}
	return conn, nil
}

// Ping checks the underlying connection.
func Ping(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("db: not initialised")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

const slowQueryThreshold = 200 * time.Millisecond

// gormLogger forwards gorm's query log to zerolog.
type gormLogger struct{}

func (gormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface { return gormLogger{} }

func (gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	logger.Log.Info().Msgf(msg, args...)
}

func (gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	logger.Log.Warn().Msgf(msg, args...)
}

func (gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	logger.Log.Error().Msgf(msg, args...)
}

func (gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	var event *zerolog.Event
	switch {
	case err != nil && err != gorm.ErrRecordNotFound:
		event = logger.Log.Error().Err(err)
	case elapsed > slowQueryThreshold:
		event = logger.Log.Warn().Bool("slow", true)
	default:
		event = logger.Log.Debug()
	}
	if !event.Enabled() {
		return
	}
	sql, rows := fc()
	event.Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("query")
}
