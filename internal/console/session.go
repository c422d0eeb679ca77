package console

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"catalogo/internal/form"

	"github.com/chzyer/readline"
)

// Options configures the terminal session.
type Options struct {
	HistoryFile string
	Stdin       io.ReadCloser
	Stdout      io.Writer
}

// Session is an interactive terminal rendition of the product form.
type Session struct {
	rl         *readline.Instance
	out        io.Writer
	ctrl       *form.Controller
	dispatcher *form.Dispatcher
	ask        func(prompt string) (string, error)
}

// NewSession creates a readline backed session for ctrl.
func NewSession(ctrl *form.Controller, opts Options) (*Session, error) {
	if opts.HistoryFile == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		opts.HistoryFile = filepath.Join(homeDir, ".catalogo_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "\033[1;36mcatalogo>\033[0m ",
		HistoryFile:       opts.HistoryFile,
		AutoComplete:      completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdin:             opts.Stdin,
		Stdout:            opts.Stdout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}

	s := newSession(ctrl, rl.Stdout(), nil)
	s.rl = rl
	s.ask = func(prompt string) (string, error) {
		rl.SetPrompt(prompt)
		defer rl.SetPrompt("\033[1;36mcatalogo>\033[0m ")
		return rl.Readline()
	}
	return s, nil
}

func newSession(ctrl *form.Controller, out io.Writer, ask func(string) (string, error)) *Session {
	s := &Session{
		out:  out,
		ctrl: ctrl,
		ask:  ask,
	}
	s.dispatcher = form.NewDispatcher(ctrl, form.ConfirmFunc(s.confirm))
	return s
}

// Run loads the products and processes commands until exit or EOF.
func (s *Session) Run() error {
	fmt.Fprintln(s.out, "Product catalog")
	fmt.Fprintln(s.out, "Type 'help' for the list of commands, 'exit' to quit.")

	s.Execute("list")

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}
		if s.Execute(line) {
			return nil
		}
	}
}

// Execute handles one input line and reports whether the session should end.
func (s *Session) Execute(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	switch strings.ToLower(line) {
	case "exit", "quit", "\\q":
		return true
	case "help", "\\h", "?":
		s.printHelp()
		return false
	}

	cmd, err := form.ParseCommand(line)
	if err != nil {
		RenderResult(s.out, form.Result{Kind: form.KindError, Title: "Error", Message: err.Error()})
		return false
	}
	res := s.dispatcher.Dispatch(cmd)
	RenderResult(s.out, res)
	if res.Kind == form.KindInfo {
		state := s.ctrl.Snapshot()
		RenderProducts(s.out, state)
		RenderForm(s.out, state)
	}
	return false
}

// Close releases the terminal.
func (s *Session) Close() error {
	if s.rl != nil {
		return s.rl.Close()
	}
	return nil
}

func (s *Session) confirm(title, message string) bool {
	if s.ask == nil {
		return false
	}
	fmt.Fprintf(s.out, "%s\n%s\n", title, message)
	answer, err := s.ask("Are you sure? [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, "Commands:")
	for _, name := range s.dispatcher.Commands() {
		fmt.Fprintf(s.out, "  %-8s %s\n", name, s.dispatcher.Usage(name))
	}
	fmt.Fprintf(s.out, "  %-8s %s\n", "help", "show this help")
	fmt.Fprintf(s.out, "  %-8s %s\n", "exit", "leave the form")
}

func completer() *readline.PrefixCompleter {
	fields := []readline.PrefixCompleterInterface{
		readline.PcItem(form.FieldCode),
		readline.PcItem(form.FieldName),
		readline.PcItem(form.FieldPrice),
		readline.PcItem(form.FieldAvailable, readline.PcItem("yes"), readline.PcItem("no")),
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("list"),
		readline.PcItem("show"),
		readline.PcItem("set", fields...),
		readline.PcItem("select"),
		readline.PcItem("create"),
		readline.PcItem("update"),
		readline.PcItem("delete"),
		readline.PcItem("clear"),
		readline.PcItem("image", readline.PcItemDynamic(listImages)),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

func listImages(line string) []string {
	prefix := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "image"))
	dir := filepath.Dir(prefix)
	if prefix == "" || strings.HasSuffix(prefix, string(filepath.Separator)) {
		dir = prefix
	}
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || ext == ".jpg" || ext == ".png" {
			names = append(names, filepath.Join(dir, e.Name()))
		}
	}
	return names
}
