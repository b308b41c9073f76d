package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/txlink/link"
	"github.com/npillmayer/txlink/rules"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func inspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [root]",
		Short: "Link the grammar in memory and explore it interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := ""
			if len(args) > 0 {
				root = args[0]
			}
			m, err := opts.loadManifest()
			if err != nil {
				return err
			}
			res, err := link.Prepare(root, m)
			if err != nil {
				return err
			}
			reg, err := link.RegistryFor(m)
			if err != nil {
				return err
			}
			insp, err := NewInspector(res, reg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			repl, err := readline.New("txlink> ")
			if err != nil {
				return err
			}
			defer repl.Close()
			insp.repl = repl
			pterm.Info.Println(fmt.Sprintf("Linked %d modules, quit with <ctrl>D", len(res.Document.Modules)))
			insp.REPL()
			return nil
		},
	}
}

// Inspector answers questions about a linked grammar.
type Inspector struct {
	res   *link.Result
	reg   *link.Registry
	index *rules.Index
	out   io.Writer
	repl  *readline.Instance
}

// NewInspector indexes the rules of a linked grammar. Answers are written to out.
func NewInspector(res *link.Result, reg *link.Registry, out io.Writer) (*Inspector, error) {
	index, err := res.Document.Rules()
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = os.Stdout
	}
	return &Inspector{res: res, reg: reg, index: index, out: out}, nil
}

// REPL starts interactive mode.
func (insp *Inspector) REPL() {
	for {
		line, err := insp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := insp.Eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	println("Good bye!")
}

// Eval executes a single inspector command.
func (insp *Inspector) Eval(line string) (bool, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	tracer().Debugf("command %q", args[0])
	switch args[0] {
	case "quit", "exit":
		return true, nil
	case "help":
		insp.help()
	case "rules":
		insp.rules()
	case "unregistered":
		if len(insp.res.Document.Unregistered) == 0 {
			fmt.Fprintln(insp.out, "all contributions extend registered rules")
		}
		for _, rule := range insp.res.Document.Unregistered {
			fmt.Fprintln(insp.out, rule)
		}
	case "modules":
		insp.modules()
	case "show", "contrib":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: %s RULE", args[0])
		}
		if args[0] == "show" {
			return false, insp.show(args[1])
		}
		return false, insp.contrib(args[1])
	default:
		return false, fmt.Errorf("unknown command %q, try 'help'", args[0])
	}
	return false, nil
}

func (insp *Inspector) help() {
	fmt.Fprint(insp.out, `rules            extendable rules and what happened to them
show RULE        definition of RULE in the consolidated grammar
contrib RULE     alternatives contributed to RULE, by module
modules          modules and the rules they extend
unregistered     extended rules which are not extendable
quit             leave
`)
}

func (insp *Inspector) rules() {
	contrib := insp.res.Document.Contributions
	for _, rule := range insp.reg.Rules() {
		n := len(contrib.Clauses(rule))
		state := fmt.Sprintf("%d alternative(s)", n)
		if _, ok := insp.index.Lookup(rule); !ok {
			if n == 0 && rule == insp.reg.RemoveWhenEmpty() {
				state = "removed"
			} else {
				state = "not defined"
			}
		} else if n == 0 {
			state = "placeholder"
		}
		fmt.Fprintf(insp.out, "%-32s %s\n", rule, state)
	}
}

func (insp *Inspector) show(rule string) error {
	def, ok := insp.index.Definition(rule)
	if !ok {
		return fmt.Errorf("no rule %s in grammar", rule)
	}
	fmt.Fprintln(insp.out, def)
	return nil
}

func (insp *Inspector) contrib(rule string) error {
	found := false
	for _, m := range insp.res.Document.Modules {
		clauses := m.Contributions.Clauses(rule)
		if len(clauses) == 0 {
			continue
		}
		found = true
		fmt.Fprintf(insp.out, "%s:\n", m.Name)
		for _, c := range clauses {
			fmt.Fprintf(insp.out, "    | %s\n", c)
		}
	}
	if !found {
		return fmt.Errorf("no contributions to %s", rule)
	}
	return nil
}

func (insp *Inspector) modules() {
	ll := pterm.LeveledList{}
	for _, m := range insp.res.Document.Modules {
		ll = append(ll, pterm.LeveledListItem{Level: 0, Text: m.Name})
		for _, rule := range m.Contributions.Rules() {
			ll = append(ll, pterm.LeveledListItem{
				Level: 1,
				Text:  fmt.Sprintf("%s (%d)", rule, len(m.Contributions.Clauses(rule))),
			})
		}
	}
	tracer().Debugf("|ll| = %d", len(ll))
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.Println(insp.res.Path)
	pterm.DefaultTree.WithRoot(root).Render()
}
