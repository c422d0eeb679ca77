package repositories_test

import (
	"testing"

	"catalogo/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProductRepository(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()

	b := product("BBBBB", "Second", "2", false)
	a := product("AAAAA", "First", "1.5", true)
	require.NoError(t, repo.Create(&b))
	require.NoError(t, repo.Create(&a))

	products, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "AAAAA", products[0].Code)
	assert.Equal(t, "BBBBB", products[1].Code)

	dup := product("AAAAA", "Again", "1", true)
	assert.ErrorIs(t, repo.Create(&dup), repositories.ErrAlreadyExists)

	changed := product("AAAAA", "Renamed", "3", false)
	require.NoError(t, repo.Update(&changed))
	got, err := repo.GetByCode("AAAAA")
	require.NoError(t, err)
	assert.True(t, changed.Equal(*got))

	missing := product("ZZZZZ", "Missing", "1", true)
	assert.ErrorIs(t, repo.Update(&missing), repositories.ErrNotFound)

	require.NoError(t, repo.Delete("BBBBB"))
	assert.ErrorIs(t, repo.Delete("BBBBB"), repositories.ErrNotFound)
	_, err = repo.GetByCode("BBBBB")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
