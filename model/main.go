package model

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/widgetly/chat-api/common"
	"github.com/widgetly/chat-api/common/config"
	"github.com/widgetly/chat-api/common/logger"
	"github.com/widgetly/chat-api/stats"
)

var DB *gorm.DB

func chooseDB(dsn string) (*gorm.DB, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"):
		return openPostgreSQL(dsn)
	case dsn != "":
		return openMySQL(dsn)
	default:
		return openSQLite()
	}
}

func openPostgreSQL(dsn string) (*gorm.DB, error) {
	logger.Logger.Info("using PostgreSQL as database")
	common.UsingPostgreSQL.Store(true)
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		PrepareStmt: true, // precompile SQL
	})
}

func openMySQL(dsn string) (*gorm.DB, error) {
	logger.Logger.Info("using MySQL as database")
	common.UsingMySQL.Store(true)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		PrepareStmt: true, // precompile SQL
	})
}

func openSQLite() (*gorm.DB, error) {
	logger.Logger.Info("SQL_DSN not set, using SQLite as database")
	common.UsingSQLite.Store(true)
	dsn := fmt.Sprintf("%s?_busy_timeout=%d", common.SQLitePath, common.SQLiteBusyTimeout)
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt: true, // precompile SQL
	})
}

func InitDB() {
	var err error
	DB, err = chooseDB(config.SQLDSN)
	if err != nil {
		logger.Logger.Fatal("failed to initialize database", zap.Error(err))
		return
	}

	if config.DebugSQLEnabled {
		logger.Logger.Debug("debug sql enabled")
		DB = DB.Debug()
	}

	setDBConns(DB)

	logger.Logger.Info("database migration started")
	if err = migrateDB(); err != nil {
		logger.Logger.Fatal("failed to migrate database", zap.Error(err))
		return
	}
	logger.Logger.Info("database migration completed")
}

func migrateDB() error {
	var err error
	if err = DB.AutoMigrate(&User{}); err != nil {
		return errors.Wrap(err, "failed to migrate User")
	}
	if err = DB.AutoMigrate(&Bot{}); err != nil {
		return errors.Wrap(err, "failed to migrate Bot")
	}
	if err = DB.AutoMigrate(&ApiKey{}); err != nil {
		return errors.Wrap(err, "failed to migrate ApiKey")
	}
	if err = DB.AutoMigrate(&Chat{}); err != nil {
		return errors.Wrap(err, "failed to migrate Chat")
	}
	if err = DB.AutoMigrate(&Message{}); err != nil {
		return errors.Wrap(err, "failed to migrate Message")
	}
	if err = DB.AutoMigrate(&News{}); err != nil {
		return errors.Wrap(err, "failed to migrate News")
	}
	if err = DB.AutoMigrate(&Order{}); err != nil {
		return errors.Wrap(err, "failed to migrate Order")
	}
	if err = DB.AutoMigrate(&stats.UsageBucket{}); err != nil {
		return errors.Wrap(err, "failed to migrate UsageBucket")
	}
	if err = DB.AutoMigrate(&stats.ApiKeyStatistics{}); err != nil {
		return errors.Wrap(err, "failed to migrate ApiKeyStatistics")
	}
	return nil
}

// CreateAdminAccountIfNeed seeds a root administrator on an empty install so
// the deployment is reachable before any user management happens.
func CreateAdminAccountIfNeed() error {
	var user User
	if err := DB.First(&user).Error; err == nil {
		return nil
	}

	logger.Logger.Info("no user exists, creating an admin user for you: username is admin, password is 123456")
	hashedPassword, err := common.Password2Hash("123456")
	if err != nil {
		return errors.WithStack(err)
	}
	admin := User{
		Username:    "admin",
		Password:    hashedPassword,
		DisplayName: "Administrator",
		Role:        RoleAdmin,
		Status:      UserStatusEnabled,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return errors.Wrap(err, "create admin user")
	}
	return nil
}

func setDBConns(db *gorm.DB) *sql.DB {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal("failed to connect database", zap.Error(err))
		return nil
	}

	sqlDB.SetMaxIdleConns(config.SQLMaxIdleConns)
	sqlDB.SetMaxOpenConns(config.SQLMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Second * time.Duration(config.SQLMaxLifetimeSeconds))
	return sqlDB
}

func CloseDB() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(sqlDB.Close())
}
