package repositories

import (
	"errors"

	"catalogo/internal/models"

	"gorm.io/gorm"
)

const (
	insertProductSQL  = "INSERT INTO productos (codigo, nombre, precio, disponible) VALUES (?, ?, ?, ?)"
	selectProductsSQL = "SELECT codigo, nombre, precio, disponible FROM productos ORDER BY codigo"
	selectProductSQL  = "SELECT codigo, nombre, precio, disponible FROM productos WHERE codigo = ?"
	updateProductSQL  = "UPDATE productos SET nombre = ?, precio = ?, disponible = ? WHERE codigo = ?"
	deleteProductSQL  = "DELETE FROM productos WHERE codigo = ?"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// It runs plain parameterized statements against the productos table.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
// The caller owns db and is responsible for closing it.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.Raw(selectProductsSQL).Scan(&products).Error; err != nil {
		return nil, dataAccess("get all products", err)
	}
	return products, nil
}

// GetByCode retrieves a single product by its code.
func (r *GORMProductRepository) GetByCode(code string) (*models.Product, error) {
	var product models.Product
	res := r.db.Raw(selectProductSQL, code).Scan(&product)
	if res.Error != nil {
		return nil, dataAccess("get product "+code, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound(code, "lookup")
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *GORMProductRepository) Create(product *models.Product) error {
	err := r.db.Exec(insertProductSQL,
		product.Code,
		product.Name,
		product.Price,
		product.Available,
	).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &DataAccessError{Op: "create product " + product.Code, Err: ErrAlreadyExists}
		}
		return dataAccess("create product", err)
	}
	return nil
}

// Update rewrites name, price and availability of the row matching the code.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Exec(updateProductSQL,
		product.Name,
		product.Price,
		product.Available,
		product.Code,
	)
	if res.Error != nil {
		return dataAccess("update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(product.Code, "update")
	}
	return nil
}

// Delete removes the product with the given code.
func (r *GORMProductRepository) Delete(code string) error {
	res := r.db.Exec(deleteProductSQL, code)
	if res.Error != nil {
		return dataAccess("delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(code, "deletion")
	}
	return nil
}
