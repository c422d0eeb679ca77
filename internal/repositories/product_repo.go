package repositories

import (
	"catalogo/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByCode(code string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(code string) error
}
