package sqlbridge

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormmysql "gorm.io/driver/mysql"
	gormpg "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	gormsqlserver "gorm.io/driver/sqlserver"
)

// openGORM opens a GORM DB for the given driver and DSN.
// Supported drivers: sqlite, postgres, mysql, sqlserver.
func openGORM(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	switch normalizeDriver(driver) {
	case "postgres":
		return gorm.Open(gormpg.Open(dsn), cfg)
	case "mysql":
		return gorm.Open(gormmysql.Open(dsn), cfg)
	case "sqlite":
		return gorm.Open(gormsqlite.Open(dsn), cfg)
	case "sqlserver":
		return gorm.Open(gormsqlserver.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
}

// normalizeDriver maps driver aliases onto their canonical names.
func normalizeDriver(driver string) string {
	switch strings.ToLower(driver) {
	case "pg", "postgresql", "postgres":
		return "postgres"
	case "mariadb", "mysql":
		return "mysql"
	case "sqlite3", "sqlite", "":
		return "sqlite"
	case "mssql", "sqlserver":
		return "sqlserver"
	default:
		return strings.ToLower(driver)
	}
}
