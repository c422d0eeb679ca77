package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"catalogo/internal/config"
	"catalogo/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd(config.New())

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Subset(t, names, []string{"serve", "form", "migrate", "events"})

	for _, flag := range []string{"config", "db-driver", "db-url", "db-user", "db-password", "rabbitmq-url"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestMigrateCommand(t *testing.T) {
	chdir(t, t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "catalogo.db")

	root := newRootCmd(config.New())
	root.SetArgs([]string{"migrate", "--db-driver", "sqlite", "--db-url", dbPath})
	require.NoError(t, root.Execute())

	db, err := database.Open(config.Database{Driver: config.DriverSQLite, URL: dbPath, MaxOpenConns: 1})
	require.NoError(t, err)
	defer database.Close(db)
	assert.True(t, db.Migrator().HasTable("productos"))
}

func TestMigrateRefusesMemoryDriver(t *testing.T) {
	chdir(t, t.TempDir())

	root := newRootCmd(config.New())
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"migrate", "--db-driver", "memory"})
	assert.ErrorContains(t, root.Execute(), "memory driver")
}

func TestEventsRequiresBroker(t *testing.T) {
	chdir(t, t.TempDir())

	root := newRootCmd(config.New())
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"events", "--db-driver", "memory"})
	assert.ErrorContains(t, root.Execute(), "rabbitmq.url is not configured")
}

func TestConfigFileFlag(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	dbPath := filepath.Join(dir, "from-file.db")
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("db:\n  driver: sqlite\n  url: "+dbPath+"\n"), 0o600))

	root := newRootCmd(config.New())
	root.SetArgs([]string{"migrate", "--config", cfgPath})
	require.NoError(t, root.Execute())

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(old)) })
}
