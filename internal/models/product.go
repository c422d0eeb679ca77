package models

import "github.com/shopspring/decimal"

// Product represents a catalog entry stored in the productos table.
type Product struct {
	Code      string          `json:"code" gorm:"column:codigo;primaryKey;size:5"`
	Name      string          `json:"name" gorm:"column:nombre;size:100;not null"`
	Price     decimal.Decimal `json:"price" gorm:"column:precio;type:decimal(10,2);not null"`
	Available bool            `json:"available" gorm:"column:disponible;not null"`
}

// TableName overrides the table name used by GORM.
func (Product) TableName() string {
	return "productos"
}

// Equal reports whether both products hold the same values.
// Prices are compared numerically, so 12.5 and 12.50 are equal.
func (p Product) Equal(other Product) bool {
	return p.Code == other.Code &&
		p.Name == other.Name &&
		p.Price.Equal(other.Price) &&
		p.Available == other.Available
}
