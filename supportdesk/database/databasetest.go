package database

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pborman/uuid"
	"github.com/stretchr/testify/assert"
)

var dsnPattern *regexp.Regexp = regexp.MustCompile(`(?P<conn>postgresql\:\/\/\S+\:\S+\@\S+\:\d+\/)(?P<dbname>.*)(?P<options>\?.*)`)

// CreateDatabase creates a clone of the database referenced by DATABASE_URL,
// applies the migrations at migrationPath and returns the connection along
// with the created database name.
//
// CREATE DATABASE + migrate is used instead of CREATE DATABASE WITH TEMPLATE
// because WITH TEMPLATE requires that there are no active connections to the
// source database.
func CreateDatabase(t *testing.T, migrationPath string, cleanup bool) (*sql.DB, string) {
	cfg, err := LoadConfig()
	assert.NoError(t, err)
	dsn := cfg.DatabaseURL

	db, err := sql.Open("pgx", dsn)
	assert.NoError(t, err)

	newDBName := strings.ReplaceAll(fmt.Sprintf("%s_%s", dbName(dsn), uuid.New()), "-", "_")
	newDSN := dsnPattern.ReplaceAllString(dsn, fmt.Sprintf("${conn}%s${options}", newDBName))

	_, err = db.Exec(fmt.Sprintf("CREATE DATABASE %s", newDBName))
	assert.NoError(t, err)
	setupTables(t, migrationPath, newDSN)

	newDB, err := sql.Open("pgx", newDSN)
	assert.NoError(t, err)

	if cleanup {
		t.Cleanup(func() {
			assert.NoError(t, newDB.Close())
			_, err = db.Exec(fmt.Sprintf("DROP DATABASE %s", newDBName))
			assert.NoError(t, err)
			db.Close()
		})
	}
	return newDB, newDBName
}

func dbName(dsn string) string {
	return dsnPattern.FindStringSubmatch(dsn)[2]
}

func setupTables(t *testing.T, migrationPath, dsn string) {
	m, err := migrate.New(migrationPath, dsn)
	assert.NoError(t, err)
	assert.NoError(t, m.Up())
	m.Close()
}
