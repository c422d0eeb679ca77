package form_test

import (
	"path/filepath"
	"testing"

	"catalogo/internal/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, d *form.Dispatcher, line string) form.Result {
	t.Helper()
	cmd, err := form.ParseCommand(line)
	require.NoError(t, err)
	return d.Dispatch(cmd)
}

func TestParseCommand(t *testing.T) {
	cmd, err := form.ParseCommand("  SET name Wireless   mouse ")
	require.NoError(t, err)
	assert.Equal(t, "set", cmd.Name)
	assert.Equal(t, []string{"name", "Wireless", "mouse"}, cmd.Args)

	_, err = form.ParseCommand("   ")
	assert.Error(t, err)
}

func TestCommandValueKeepsSpacing(t *testing.T) {
	cmd, err := form.ParseCommand("set  name   Wireless  mouse  ")
	require.NoError(t, err)
	assert.Equal(t, "Wireless  mouse", cmd.Value(1))
	assert.Equal(t, "name   Wireless  mouse", cmd.Value(0))
	assert.Empty(t, cmd.Value(3))

	// Commands built from arguments, as the HTTP form sends them.
	remote := form.Command{Name: "set", Args: []string{"name", "Wireless", "mouse"}}
	assert.Equal(t, "Wireless mouse", remote.Value(1))
	assert.Empty(t, remote.Value(5))
}

func TestDispatcher_SetAndImageUseRawValue(t *testing.T) {
	ctrl, _ := newTestController(t)
	d := form.NewDispatcher(ctrl, nil)

	run(t, d, "set name Wireless  mouse")
	assert.Equal(t, "Wireless  mouse", ctrl.Snapshot().Name)

	path := writeImage(t, "my  photo.png")
	res := run(t, d, "image "+path)
	require.Equal(t, form.KindInfo, res.Kind, res.Message)
	assert.Equal(t, "my  photo.png", filepath.Base(ctrl.Snapshot().Image))
}

func TestDispatcher_CreateFlow(t *testing.T) {
	ctrl, _ := newTestController(t)
	d := form.NewDispatcher(ctrl, form.StaticConfirmer(false))

	assert.Equal(t, "0 products loaded.", run(t, d, "list").Message)
	assert.Equal(t, "name set.", run(t, d, "set name Wireless mouse").Message)
	run(t, d, "set code PRD01")
	run(t, d, "set price 25.99")
	run(t, d, "set available yes")

	res := run(t, d, "create")
	assert.Equal(t, form.KindInfo, res.Kind)
	assert.Equal(t, "Success", res.Title)
	assert.Equal(t, "Product PRD01 created successfully.", res.Message)
	assert.Equal(t, "Wireless mouse", ctrl.Snapshot().Products[0].Name)
}

func TestDispatcher_ValidationResult(t *testing.T) {
	ctrl, _ := newTestController(t)
	d := form.NewDispatcher(ctrl, nil)

	run(t, d, "set code ABC")
	run(t, d, "set name Lamp")
	run(t, d, "set price ten")

	res := run(t, d, "create")
	assert.Equal(t, form.KindError, res.Kind)
	assert.Equal(t, "Validation errors", res.Title)
	assert.Contains(t, res.Message, "code must be exactly 5 characters long")
	assert.Contains(t, res.Message, "price must be a valid number")
}

func TestDispatcher_SelectUpdateDelete(t *testing.T) {
	ctrl, _ := newTestController(t,
		product("AAAAA", "Alpha", "1", true),
		product("BBBBB", "Beta", "2", true),
	)
	answer := false
	d := form.NewDispatcher(ctrl, form.ConfirmFunc(func(string, string) bool { return answer }))

	res := run(t, d, "select 2")
	assert.Equal(t, "Editing product BBBBB.", res.Message)

	res = run(t, d, "set code CCCCC")
	assert.Equal(t, form.KindError, res.Kind)

	run(t, d, "set price 3")
	res = run(t, d, "update")
	assert.Equal(t, "Product BBBBB updated successfully.", res.Message)

	res = run(t, d, "delete")
	assert.Equal(t, "No product selected", res.Title)

	run(t, d, "select 1")
	res = run(t, d, "delete")
	assert.Equal(t, form.KindInfo, res.Kind)
	assert.Equal(t, "Deletion cancelled", res.Title)
	assert.Len(t, ctrl.Snapshot().Products, 2)

	answer = true
	res = run(t, d, "delete")
	assert.Equal(t, "Product deleted successfully.", res.Message)
	assert.Len(t, ctrl.Snapshot().Products, 1)
}

func TestDispatcher_DuplicateAndUnknown(t *testing.T) {
	ctrl, _ := newTestController(t, product("AAAAA", "Alpha", "1", true))
	d := form.NewDispatcher(ctrl, nil)

	run(t, d, "set code AAAAA")
	run(t, d, "set name Copy")
	run(t, d, "set price 1")
	res := run(t, d, "create")
	assert.Equal(t, "Duplicate code", res.Title)
	assert.Equal(t, "A product with that code already exists.", res.Message)

	res = run(t, d, "frobnicate")
	assert.Equal(t, "Unknown command", res.Title)

	res = run(t, d, "select x")
	assert.Equal(t, form.KindError, res.Kind)

	res = run(t, d, "image")
	assert.Equal(t, form.KindError, res.Kind)

	res = run(t, d, "image "+writeImage(t, "shot.jpg"))
	assert.Equal(t, form.KindInfo, res.Kind)
	assert.NotEmpty(t, ctrl.Snapshot().Image)

	assert.Equal(t, "Form cleared.", run(t, d, "clear").Message)
	assert.Empty(t, ctrl.Snapshot().Image)
}

func TestDispatcher_Commands(t *testing.T) {
	ctrl, _ := newTestController(t)
	d := form.NewDispatcher(ctrl, nil)

	names := d.Commands()
	assert.Contains(t, names, "create")
	assert.Contains(t, names, "delete")
	assert.IsIncreasing(t, names)
	assert.NotEmpty(t, d.Usage("set"))
}
