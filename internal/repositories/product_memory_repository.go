package repositories

import (
	"sort"
	"sync"

	"catalogo/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products ordered by code.
func (r *MemoryProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].Code < productList[j].Code
	})
	return productList, nil
}

// GetByCode returns a product by its code.
func (r *MemoryProductRepository) GetByCode(code string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[code]
	if !ok {
		return nil, notFound(code, "lookup")
	}
	return &product, nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.Code]; ok {
		return &DataAccessError{Op: "create product " + product.Code, Err: ErrAlreadyExists}
	}
	r.products[product.Code] = *product
	return nil
}

// Update modifies an existing product.
func (r *MemoryProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.Code]; !ok {
		return notFound(product.Code, "update")
	}
	r.products[product.Code] = *product
	return nil
}

// Delete removes a product by its code.
func (r *MemoryProductRepository) Delete(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[code]; !ok {
		return notFound(code, "deletion")
	}
	delete(r.products, code)
	return nil
}
