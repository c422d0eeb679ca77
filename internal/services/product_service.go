package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"catalogo/internal/models"
	"catalogo/internal/repositories"

	"github.com/google/uuid"
)

// Product event types published after a successful change.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ProductEvent describes a change applied to the catalog.
type ProductEvent struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Code       string          `json:"code"`
	Product    *models.Product `json:"product,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// EventPublisher delivers product events to interested consumers.
type EventPublisher interface {
	PublishProductEvent(event ProductEvent) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	validator *Validator
	publisher EventPublisher
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		validator: NewValidator(),
		publisher: publisher,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByCode retrieves a single product by its code.
func (s *ProductService) GetProductByCode(code string) (*models.Product, error) {
	return s.repo.GetByCode(code)
}

// CreateProduct validates the input and stores a new product.
// Nothing is written when validation fails.
func (s *ProductService) CreateProduct(in ProductInput) (*models.Product, error) {
	product, err := s.validator.ForCreate(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}
	s.publish(EventProductCreated, product.Code, &product)
	return &product, nil
}

// UpdateProduct replaces name, price and availability of the product with
// the given code. The code itself never changes.
func (s *ProductService) UpdateProduct(code string, in ProductInput) (*models.Product, error) {
	product, err := s.validator.ForUpdate(code, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(&product); err != nil {
		return nil, err
	}
	s.publish(EventProductUpdated, product.Code, &product)
	return &product, nil
}

// DeleteProduct deletes a product by its code.
func (s *ProductService) DeleteProduct(code string) error {
	if err := s.repo.Delete(code); err != nil {
		return err
	}
	s.publish(EventProductDeleted, code, nil)
	return nil
}

func (s *ProductService) publish(eventType, code string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	event := ProductEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Code:       code,
		Product:    product,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishProductEvent(event); err != nil {
		log.Printf("Warning: failed to publish %s event for product %s: %v", eventType, code, err)
	}
}

// IsValidation reports whether err is an aggregated validation failure and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// Describe returns a short, user facing explanation of err.
func Describe(err error) string {
	if verr, ok := IsValidation(err); ok {
		return fmt.Sprintf("Please fix the following:\n- %s", strings.Join(verr.Messages(), "\n- "))
	}
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return "The product no longer exists."
	case errors.Is(err, repositories.ErrAlreadyExists):
		return "A product with that code already exists."
	case errors.Is(err, repositories.ErrDataAccess):
		return "The database operation failed. Please try again."
	default:
		return err.Error()
	}
}
