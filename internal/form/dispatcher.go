package form

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"catalogo/internal/repositories"
	"catalogo/internal/services"
)

// Kind classifies a Result the way a dialog would be styled.
type Kind string

const (
	KindInfo  Kind = "info"
	KindError Kind = "error"
)

// Result is what a user action reports back to the rendering layer.
type Result struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Command is a user action and its arguments. Text keeps the raw remainder
// of a typed line so values keep their inner spacing.
type Command struct {
	Name string   `json:"name"`
	Args []string `json:"args"`
	Text string   `json:"-"`
}

// ParseCommand splits a command line such as "set name Wireless mouse".
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	return Command{
		Name: strings.ToLower(fields[0]),
		Args: fields[1:],
		Text: strings.TrimSpace(line[len(fields[0]):]),
	}, nil
}

// Value returns everything after the first skip arguments.
func (c Command) Value(skip int) string {
	if c.Text == "" {
		if len(c.Args) <= skip {
			return ""
		}
		return strings.Join(c.Args[skip:], " ")
	}
	rest := c.Text
	for i := 0; i < skip; i++ {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			return ""
		}
		rest = rest[end:]
	}
	return strings.TrimLeftFunc(rest, unicode.IsSpace)
}

type handlerFunc func(cmd Command) (Result, error)

// Dispatcher maps commands to form actions. Every action validates its
// arguments, runs against the controller and returns a Result; errors are
// turned into error results and never escape Dispatch.
type Dispatcher struct {
	ctrl     *Controller
	confirm  Confirmer
	handlers map[string]handlerFunc
	usage    map[string]string
}

// NewDispatcher binds the command set to ctrl. confirm approves deletions.
func NewDispatcher(ctrl *Controller, confirm Confirmer) *Dispatcher {
	d := &Dispatcher{
		ctrl:     ctrl,
		confirm:  confirm,
		handlers: make(map[string]handlerFunc),
		usage:    make(map[string]string),
	}
	d.register("list", "reload the product table", d.handleList)
	d.register("show", "show the form", d.handleShow)
	d.register("set", "set <code|name|price|available> <value>", d.handleSet)
	d.register("select", "select <row> to edit or delete it", d.handleSelect)
	d.register("create", "store the form as a new product", d.handleCreate)
	d.register("update", "save the form over the selected product", d.handleUpdate)
	d.register("delete", "delete the selected product", d.handleDelete)
	d.register("clear", "clear the form", d.handleClear)
	d.register("image", "image <path> attaches a .jpg or .png file", d.handleImage)
	return d
}

func (d *Dispatcher) register(name, usage string, h handlerFunc) {
	d.handlers[name] = h
	d.usage[name] = usage
}

// Commands returns the known command names, sorted.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Usage returns the help line of a command.
func (d *Dispatcher) Usage(name string) string {
	return d.usage[name]
}

// Dispatch runs cmd and reports its outcome.
func (d *Dispatcher) Dispatch(cmd Command) Result {
	h, ok := d.handlers[strings.ToLower(cmd.Name)]
	if !ok {
		return Result{Kind: KindError, Title: "Unknown command", Message: fmt.Sprintf("%q is not a command; try help", cmd.Name)}
	}
	res, err := h(cmd)
	if err != nil {
		return errorResult(cmd.Name, err)
	}
	return res
}

func (d *Dispatcher) handleList(cmd Command) (Result, error) {
	if err := d.ctrl.Load(); err != nil {
		return Result{}, err
	}
	n := len(d.ctrl.Snapshot().Products)
	return info("Products", fmt.Sprintf("%d products loaded.", n)), nil
}

func (d *Dispatcher) handleShow(cmd Command) (Result, error) {
	return info("Form", ""), nil
}

func (d *Dispatcher) handleSet(cmd Command) (Result, error) {
	if len(cmd.Args) < 1 {
		return Result{}, fmt.Errorf("usage: %s", d.usage["set"])
	}
	field := cmd.Args[0]
	if err := d.ctrl.SetField(field, cmd.Value(1)); err != nil {
		return Result{}, err
	}
	return info("Form", fmt.Sprintf("%s set.", strings.ToLower(field))), nil
}

func (d *Dispatcher) handleSelect(cmd Command) (Result, error) {
	if len(cmd.Args) != 1 {
		return Result{}, fmt.Errorf("usage: %s", d.usage["select"])
	}
	row, err := strconv.Atoi(cmd.Args[0])
	if err != nil {
		return Result{}, fmt.Errorf("row must be a number, got %q", cmd.Args[0])
	}
	p, err := d.ctrl.Select(row - 1)
	if err != nil {
		return Result{}, err
	}
	return info("Form", fmt.Sprintf("Editing product %s.", p.Code)), nil
}

func (d *Dispatcher) handleCreate(cmd Command) (Result, error) {
	p, err := d.ctrl.Create()
	if err != nil {
		return Result{}, err
	}
	return info("Success", fmt.Sprintf("Product %s created successfully.", p.Code)), nil
}

func (d *Dispatcher) handleUpdate(cmd Command) (Result, error) {
	p, err := d.ctrl.Update()
	if err != nil {
		return Result{}, err
	}
	return info("Success", fmt.Sprintf("Product %s updated successfully.", p.Code)), nil
}

func (d *Dispatcher) handleDelete(cmd Command) (Result, error) {
	deleted, err := d.ctrl.Delete(d.confirm)
	if err != nil {
		return Result{}, err
	}
	if !deleted {
		return info("Deletion cancelled", "The product was kept."), nil
	}
	return info("Success", "Product deleted successfully."), nil
}

func (d *Dispatcher) handleClear(cmd Command) (Result, error) {
	d.ctrl.Clear()
	return info("Form", "Form cleared."), nil
}

func (d *Dispatcher) handleImage(cmd Command) (Result, error) {
	if len(cmd.Args) == 0 {
		return Result{}, fmt.Errorf("usage: %s", d.usage["image"])
	}
	path, err := d.ctrl.PickImage(cmd.Value(0))
	if err != nil {
		return Result{}, err
	}
	return info("Image", fmt.Sprintf("Image %s attached.", path)), nil
}

func info(title, msg string) Result {
	return Result{Kind: KindInfo, Title: title, Message: msg}
}

func errorResult(command string, err error) Result {
	res := Result{Kind: KindError, Message: services.Describe(err)}
	switch {
	case isValidation(err):
		res.Title = "Validation errors"
	case errors.Is(err, repositories.ErrNotFound):
		res.Title = "Product not found"
	case errors.Is(err, repositories.ErrAlreadyExists):
		res.Title = "Duplicate code"
	case errors.Is(err, repositories.ErrDataAccess):
		res.Title = "Database error"
		log.Printf("Error running %s: %v", command, err)
	case errors.Is(err, ErrNoSelection):
		res.Title = "No product selected"
	default:
		res.Title = "Error"
	}
	return res
}

func isValidation(err error) bool {
	_, ok := services.IsValidation(err)
	return ok
}
