package database

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/siherrmann/poetry/helper"
	loadSql "github.com/siherrmann/poetry/sql"
	"github.com/stretchr/testify/require"
)

var dbPort string

func TestMain(m *testing.M) {
	teardown, port, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("error starting pgvector container: %v", err)
	}
	dbPort = port

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Printf("error tearing down pgvector container: %v", err)
		}
	}
	os.Exit(code)
}

// initDB connects to the container with the vector extension and no poems table,
// so every test creates the table with its own embedding dimension.
func initDB(t *testing.T) *helper.Database {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err, "failed to create database configuration")
	database := helper.NewTestDatabase(dbConfig)
	t.Cleanup(func() {
		database.Close()
	})

	err = loadSql.Init(database.Instance)
	require.NoError(t, err)

	_, err = database.Instance.Exec(`DROP TABLE IF EXISTS poems;`)
	require.NoError(t, err)

	return database
}
