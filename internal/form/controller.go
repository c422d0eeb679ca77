package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"catalogo/internal/models"
	"catalogo/internal/repositories"
	"catalogo/internal/services"
)

// Form field names accepted by SetField.
const (
	FieldCode      = "code"
	FieldName      = "name"
	FieldPrice     = "price"
	FieldAvailable = "available"
)

var (
	// ErrNoSelection is returned when an action needs a selected row.
	ErrNoSelection = errors.New("no product selected")
	// ErrCodeLocked is returned when editing the code of a selected product.
	ErrCodeLocked = errors.New("the code of a selected product cannot be changed")
	// ErrUnknownField is returned by SetField for names outside the form.
	ErrUnknownField = errors.New("unknown form field")
)

// Catalog is the product service the form works against.
type Catalog interface {
	GetAllProducts() ([]models.Product, error)
	CreateProduct(in services.ProductInput) (*models.Product, error)
	UpdateProduct(code string, in services.ProductInput) (*models.Product, error)
	DeleteProduct(code string) error
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(title, message string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(title, message string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(title, message string) bool {
	return f(title, message)
}

// StaticConfirmer answers every confirmation with the same value.
type StaticConfirmer bool

// Confirm returns the fixed answer.
func (c StaticConfirmer) Confirm(string, string) bool {
	return bool(c)
}

// State is a snapshot of the form: the input fields, the picked image and
// the product table it mirrors.
type State struct {
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Price         string           `json:"price"`
	Available     bool             `json:"available"`
	Image         string           `json:"image,omitempty"`
	Products      []models.Product `json:"products"`
	Selected      int              `json:"selected"`
	CodeLocked    bool             `json:"code_locked"`
	CreateEnabled bool             `json:"create_enabled"`
	UpdateEnabled bool             `json:"update_enabled"`
}

// Controller holds the state of one product form and applies user actions
// to it. Actions are serialized: each one runs to completion before the next.
type Controller struct {
	mu      sync.Mutex
	catalog Catalog
	images  *ImagePicker
	state   State
}

// NewController creates an empty form backed by catalog.
func NewController(catalog Catalog, images *ImagePicker) *Controller {
	if images == nil {
		images = NewImagePicker()
	}
	c := &Controller{
		catalog: catalog,
		images:  images,
	}
	c.clear()
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Products = append([]models.Product(nil), c.state.Products...)
	return s
}

// Load replaces the product table with the stored products.
func (c *Controller) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *Controller) load() error {
	products, err := c.catalog.GetAllProducts()
	if err != nil {
		return err
	}
	c.state.Products = products
	if c.state.Selected < 0 {
		return nil
	}
	// Rows may have shifted; follow the locked code, not the old index.
	if i := indexOf(products, c.state.Code); i >= 0 {
		c.state.Selected = i
	} else {
		c.clear()
	}
	return nil
}

// SetField sets one input field from its text representation.
func (c *Controller) SetField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch strings.ToLower(field) {
	case FieldCode:
		if c.state.CodeLocked {
			return ErrCodeLocked
		}
		c.state.Code = value
	case FieldName:
		c.state.Name = value
	case FieldPrice:
		c.state.Price = value
	case FieldAvailable:
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.state.Available = b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Select loads the product at index into the fields and locks the code.
func (c *Controller) Select(index int) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.state.Products) {
		return nil, fmt.Errorf("%w: row %d is out of range", ErrNoSelection, index+1)
	}
	p := c.state.Products[index]
	c.state.Selected = index
	c.state.Code = p.Code
	c.state.Name = p.Name
	c.state.Price = p.Price.String()
	c.state.Available = p.Available
	c.state.CodeLocked = true
	c.state.UpdateEnabled = true
	c.state.CreateEnabled = false
	return &p, nil
}

// Create validates the fields and stores a new product. On success the
// product is appended to the table and the form is cleared.
func (c *Controller) Create() (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.CreateEnabled {
		return nil, fmt.Errorf("clear the form before creating a new product")
	}
	product, err := c.catalog.CreateProduct(c.input())
	if err != nil {
		return nil, err
	}
	c.state.Products = append(c.state.Products, *product)
	c.clear()
	return product, nil
}

// Update validates the fields and rewrites the selected product. The stored
// row is changed first; the table entry is only modified once that succeeds.
func (c *Controller) Update() (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Selected < 0 {
		return nil, ErrNoSelection
	}
	code := c.state.Code
	product, err := c.catalog.UpdateProduct(code, c.input())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.clear()
			if lerr := c.load(); lerr != nil {
				return nil, errors.Join(err, lerr)
			}
		}
		return nil, err
	}
	if i := indexOf(c.state.Products, code); i >= 0 {
		c.state.Products[i] = *product
	}
	c.clear()
	return product, nil
}

// Delete removes the selected product once confirm approves it. It reports
// whether the product was deleted; a declined confirmation changes nothing.
func (c *Controller) Delete(confirm Confirmer) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Selected < 0 {
		return false, ErrNoSelection
	}
	code := c.state.Code
	if confirm == nil || !confirm.Confirm("Confirm deletion",
		fmt.Sprintf("The product with code %s will be deleted.", code)) {
		return false, nil
	}

	if err := c.catalog.DeleteProduct(code); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.clear()
			if lerr := c.load(); lerr != nil {
				return false, errors.Join(err, lerr)
			}
		}
		return false, err
	}
	if i := indexOf(c.state.Products, code); i >= 0 {
		c.state.Products = append(c.state.Products[:i], c.state.Products[i+1:]...)
	}
	c.clear()
	return true, nil
}

// Clear resets the fields, the picked image and the selection.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear()
}

// PickImage attaches an image file to the form.
func (c *Controller) PickImage(path string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	abs, err := c.images.Check(path)
	if err != nil {
		return "", err
	}
	c.state.Image = abs
	return abs, nil
}

func (c *Controller) clear() {
	c.state.Code = ""
	c.state.Name = ""
	c.state.Price = ""
	c.state.Available = false
	c.state.Image = ""
	c.state.Selected = -1
	c.state.CodeLocked = false
	c.state.CreateEnabled = true
	c.state.UpdateEnabled = false
}

func (c *Controller) input() services.ProductInput {
	return services.ProductInput{
		Code:      c.state.Code,
		Name:      c.state.Name,
		Price:     c.state.Price,
		Available: c.state.Available,
	}
}

func indexOf(products []models.Product, code string) int {
	for i, p := range products {
		if p.Code == code {
			return i
		}
	}
	return -1
}

func parseBool(value string) (bool, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "yes", "y", "si", "on":
		return true, nil
	case "no", "n", "off", "":
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("available must be yes or no, got %q", value)
	}
	return b, nil
}
