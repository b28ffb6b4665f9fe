package sqlite

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"qualiobra/cmd/internal/config"
	"qualiobra/cmd/internal/domain/entity"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Models lists every persisted entity, in migration order.
func Models() []any {
	return []any{
		&entity.Tenant{},
		&entity.SystemUser{},
		&entity.User{},
		&entity.Project{},
		&entity.Location{},
		&entity.Service{},
		&entity.Criterion{},
		&entity.Contractor{},
		&entity.Contract{},
		&entity.ContractItem{},
		&entity.Inspection{},
		&entity.InspectionItem{},
		&entity.Issue{},
		&entity.MeasurementBulletin{},
		&entity.MeasurementItem{},
		&entity.MeasurementAdditive{},
		&entity.SiteDiary{},
		&entity.DiaryLabor{},
		&entity.DiaryEquipment{},
		&entity.DiaryActivity{},
		&entity.DiaryObservation{},
		&entity.PlanningItem{},
		&entity.Notification{},
		&entity.Connection{},
		&entity.Company{},
	}
}

func Init(cfg config.DBConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
	if cfg.Debug {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(Models()...); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer, so the pool is pinned to one connection.
	if cfg.Driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Infof("database ready (driver=%s)", cfg.Driver)
	return db, nil
}

func dialectorFor(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		// foreign keys are off by default in SQLite
		return sqlite.Open(cfg.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), nil
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for driver %q", cfg.Driver)
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
