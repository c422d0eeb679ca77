package console

import (
	"fmt"
	"io"
	"strings"

	"catalogo/internal/form"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderProducts writes the product table, marking the selected row.
func RenderProducts(w io.Writer, state form.State) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Code", "Name", "Price", "Available"})
	for i, p := range state.Products {
		marker := fmt.Sprintf("%d", i+1)
		if i == state.Selected {
			marker = "> " + marker
		}
		t.AppendRow(table.Row{marker, p.Code, p.Name, p.Price.StringFixed(2), yesNo(p.Available)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.AppendFooter(table.Row{"", "", "Total", len(state.Products), ""})
	t.Render()
}

// RenderForm writes the input fields and which actions are enabled.
func RenderForm(w io.Writer, state form.State) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Product")

	code := state.Code
	if state.CodeLocked {
		code += " (locked)"
	}
	image := state.Image
	if image == "" {
		image = "-"
	}
	t.AppendRows([]table.Row{
		{"Code", code},
		{"Name", state.Name},
		{"Price", state.Price},
		{"Available", yesNo(state.Available)},
		{"Image", image},
	})

	var actions []string
	if state.CreateEnabled {
		actions = append(actions, "create")
	}
	if state.UpdateEnabled {
		actions = append(actions, "update", "delete")
	}
	actions = append(actions, "clear")
	t.AppendFooter(table.Row{"Actions", strings.Join(actions, ", ")})
	t.Render()
}

// RenderResult writes a result the way a dialog box would show it.
func RenderResult(w io.Writer, res form.Result) {
	if res.Message == "" {
		return
	}
	title := res.Title
	if res.Kind == form.KindError {
		title = text.Colors{text.Bold, text.FgRed}.Sprint(title)
	} else {
		title = text.Colors{text.Bold, text.FgGreen}.Sprint(title)
	}
	fmt.Fprintf(w, "%s\n%s\n", title, res.Message)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
