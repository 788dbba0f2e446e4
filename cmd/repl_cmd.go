package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-cat/over/parse"
	"github.com/m-cat/over/parse/over"
	"github.com/m-cat/over/pkg"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	promptMain  = "over> "
	promptCont  = "....> "
	historyFile = ".over_history"
)

var replCmd = &cobra.Command{
	Use:   "repl [file]",
	Short: "build a document interactively, one field at a time",
	Args:  cobra.MaximumNArgs(1),
	RunE:  replRun,
}

// session is the document typed so far. Every entry is appended to the
// source and the whole document is parsed again, so variables and globals
// from earlier entries stay in scope.
type session struct {
	src string
	obj *over.Obj
}

func newSession() *session {
	return &session{obj: over.EmptyObj()}
}

// eval appends entry to the document. On error the session is unchanged.
// It returns the pairs the entry added.
func (s *session) eval(entry string) ([]over.Pair, error) {
	candidate := s.src + entry + "\n"
	obj, err := over.ParseObj(candidate)
	if err != nil {
		return nil, err
	}
	before := s.obj.Len()
	s.src, s.obj = candidate, obj
	return obj.Pairs()[before:], nil
}

// incomplete reports whether entry only fails because input ended early.
func (s *session) incomplete(entry string) bool {
	_, err := over.ParseObj(s.src + entry)
	return over.IsKind(err, over.ErrUnexpectedEnd)
}

func replRun(cmd *cobra.Command, args []string) error {
	s := newSession()
	if len(args) > 0 {
		contents, err := pkg.ReadFileString(args[0])
		if err != nil {
			return err
		}
		if _, err := s.eval(contents); err != nil {
			return err
		}
		fmt.Printf("loaded %d fields from %s\n", s.obj.Len(), args[0])
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		entry, ok := readEntry(ln, s)
		if !ok {
			fmt.Println()
			return nil
		}

		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if quit := s.command(trimmed); quit {
				return nil
			}
			continue
		}

		added, err := s.eval(entry)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		for _, p := range added {
			fmt.Printf("%s: %s\n", p.Field, p.Value)
		}
		ln.AppendHistory(strings.ReplaceAll(entry, "\n", " "))
	}
}

// command runs a ':' command and reports whether the session should end.
func (s *session) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	switch strings.ToLower(name) {
	case ":quit", ":q":
		return true
	case ":show":
		fmt.Print(s.obj.WriteString())
	case ":reset":
		*s = *newSession()
	case ":get":
		v, err := parse.Find(s.obj, arg)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			break
		}
		fmt.Println(v)
	case ":yaml":
		out, err := over.ToYAML(s.obj)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			break
		}
		fmt.Print(string(out))
	case ":save":
		if err := s.obj.WriteFile(strings.TrimSpace(arg)); err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
		}
	default:
		fmt.Println("unknown command. Commands: :get PATH, :show, :yaml, :save FILE, :reset, :quit")
	}
	return false
}

// readEntry reads lines until they form a complete entry, prompting for
// continuation lines while an open bracket or string is unterminated.
func readEntry(ln *liner.State, s *session) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(promptMain)
		} else {
			line, err = ln.Prompt(promptCont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		entry := b.String()
		if strings.HasPrefix(strings.TrimSpace(entry), ":") || !s.incomplete(entry) {
			return entry, true
		}
	}
}
