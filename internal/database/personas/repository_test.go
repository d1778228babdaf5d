package personas

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/personachat/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_personas_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Persona{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_CreateAndGetByName(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	persona := &entities.Persona{
		Name:          "alice",
		Avatar:        "https://img/alice.png",
		Prompt:        "You are a test account.",
		PostURLPrefix: "https://x.com/alice",
		StorePath:     "/tmp/stores/twitter/alice",
		TwitterID:     "42",
		Status:        entities.StatusNotImported,
	}

	err := repo.Create(persona)
	require.NoError(t, err)
	assert.NotZero(t, persona.ID)

	got, err := repo.GetByName("alice")
	require.NoError(t, err)
	assert.Equal(t, "42", got.TwitterID)
	assert.Equal(t, entities.StatusNotImported, got.Status)
}

func TestRepository_GetByNameNotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	got, err := repo.GetByName("nobody")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_ListReadyFiltersByStatus(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Persona{Name: "ready", Status: entities.StatusFullyImported}))
	require.NoError(t, repo.Create(&entities.Persona{Name: "pending", Status: entities.StatusNotImported}))
	require.NoError(t, repo.Create(&entities.Persona{Name: "also-ready", Status: entities.StatusFullyImported}))

	ready, err := repo.ListReady()
	require.NoError(t, err)
	require.Len(t, ready, 2)
	assert.Equal(t, "ready", ready[0].Name)
	assert.Equal(t, "also-ready", ready[1].Name)

	all, err := repo.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepository_SetTwitterID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	// A seeded row starts without a resolved account id.
	require.NoError(t, repo.Create(&entities.Persona{Name: "alice"}))

	err := repo.SetTwitterID("alice", "42")
	require.NoError(t, err)

	got, err := repo.GetByName("alice")
	require.NoError(t, err)
	assert.Equal(t, "42", got.TwitterID)
}

func TestRepository_SetFarcasterID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Persona{Name: "alice", TwitterID: "42"}))

	err := repo.SetFarcasterID("alice", "777")
	require.NoError(t, err)

	got, err := repo.GetByName("alice")
	require.NoError(t, err)
	assert.Equal(t, "777", got.FarcasterID)
}

func TestRepository_MarkFullyImported(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Persona{Name: "alice", Status: entities.StatusNotImported}))

	err := repo.MarkFullyImported("alice")
	require.NoError(t, err)

	got, err := repo.GetByName("alice")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusFullyImported, got.Status)
}

func TestRepository_CreateDuplicateNameFails(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Persona{Name: "alice"}))

	err := repo.Create(&entities.Persona{Name: "alice"})
	assert.Error(t, err)
}
