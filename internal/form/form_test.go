package form_test

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"catalogo/internal/form"
	"catalogo/internal/models"
	"catalogo/internal/repositories"
	"catalogo/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// newTestController returns a controller over an in-memory catalog seeded
// with products, already loaded.
func newTestController(t *testing.T, products ...models.Product) (*form.Controller, *repositories.MemoryProductRepository) {
	t.Helper()
	repo := repositories.NewMemoryProductRepository()
	for i := range products {
		require.NoError(t, repo.Create(&products[i]))
	}
	ctrl := form.NewController(services.NewProductService(repo, nil), nil)
	require.NoError(t, ctrl.Load())
	return ctrl, repo
}

func product(code, name, price string, available bool) models.Product {
	return models.Product{Code: code, Name: name, Price: decimal.RequireFromString(price), Available: available}
}

func writeImage(t *testing.T, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	switch filepath.Ext(name) {
	case ".png", ".PNG":
		require.NoError(t, png.Encode(f, img))
	default:
		require.NoError(t, jpeg.Encode(f, img, nil))
	}
	return path
}
