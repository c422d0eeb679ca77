package handlers

import (
	"fmt"
	"log"
	"sync"
	"time"

	"catalogo/internal/form"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CommandRequest is the body of a form command.
type CommandRequest struct {
	Name    string   `json:"name"`
	Args    []string `json:"args"`
	Confirm bool     `json:"confirm"`
}

// DefaultSessionTTL is how long an unused form session is kept.
const DefaultSessionTTL = 30 * time.Minute

// FormHandler exposes product forms over HTTP. Each session owns its own
// form state; commands run through the same dispatcher as the terminal.
// Sessions idle for longer than the TTL are discarded.
type FormHandler struct {
	catalog form.Catalog
	images  *form.ImagePicker
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*formSession
}

type formSession struct {
	ctrl     *form.Controller
	lastUsed time.Time
}

// NewFormHandler creates a new FormHandler. A ttl of zero or less keeps
// sessions until they are closed.
func NewFormHandler(catalog form.Catalog, ttl time.Duration) *FormHandler {
	return &FormHandler{
		catalog:  catalog,
		images:   form.NewImagePicker(),
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*formSession),
	}
}

// RegisterRoutes registers the form session routes with the Fiber app.
func (h *FormHandler) RegisterRoutes(router fiber.Router) {
	formRoutes := router.Group("/forms")
	formRoutes.Post("/", h.HandleOpenForm)
	formRoutes.Get("/:id", h.HandleGetForm)
	formRoutes.Post("/:id/commands", h.HandleCommand)
	formRoutes.Delete("/:id", h.HandleCloseForm)
}

// HandleOpenForm starts a new form session with the product table loaded.
func (h *FormHandler) HandleOpenForm(c *fiber.Ctx) error {
	ctrl := form.NewController(h.catalog, h.images)
	if err := ctrl.Load(); err != nil {
		return respondError(c, err, "Could not load products")
	}

	id := uuid.New().String()
	h.mu.Lock()
	h.expire()
	h.sessions[id] = &formSession{ctrl: ctrl, lastUsed: h.now()}
	h.mu.Unlock()

	log.Printf("Opened form session %s", id)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    id,
		"state": ctrl.Snapshot(),
	})
}

// HandleGetForm returns the current state of a form session.
func (h *FormHandler) HandleGetForm(c *fiber.Ctx) error {
	ctrl, ok := h.session(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	return c.JSON(fiber.Map{
		"id":    c.Params("id"),
		"state": ctrl.Snapshot(),
	})
}

// HandleCommand dispatches one user action to a form session.
func (h *FormHandler) HandleCommand(c *fiber.Ctx) error {
	ctrl, ok := h.session(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	var req CommandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Command name is required",
		})
	}

	dispatcher := form.NewDispatcher(ctrl, form.StaticConfirmer(req.Confirm))
	result := dispatcher.Dispatch(form.Command{Name: req.Name, Args: req.Args})
	return c.JSON(fiber.Map{
		"result": result,
		"state":  ctrl.Snapshot(),
	})
}

// HandleCloseForm discards a form session.
func (h *FormHandler) HandleCloseForm(c *fiber.Ctx) error {
	id := c.Params("id")
	h.mu.Lock()
	h.expire()
	_, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if !ok {
		return sessionNotFound(c)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Form session %s closed", id),
	})
}

func (h *FormHandler) session(id string) (*form.Controller, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.expire()
	sess, ok := h.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastUsed = h.now()
	return sess.ctrl, true
}

// expire drops idle sessions. h.mu must be held.
func (h *FormHandler) expire() {
	if h.ttl <= 0 {
		return
	}
	now := h.now()
	for id, sess := range h.sessions {
		if now.Sub(sess.lastUsed) > h.ttl {
			log.Printf("Form session %s expired", id)
			delete(h.sessions, id)
		}
	}
}

func sessionNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": fmt.Sprintf("Form session %s not found", c.Params("id")),
	})
}
