// Package repl implements the interactive command loop described in §6
// "Interactive commands": quit/exit/bye, help, retract, explain, run, clear,
// and a free-form chat fallback gated on OPENAI_API_KEY. It is one of the
// "out of scope" external collaborators named by §1 (the CLI shell, not the
// core), built synchronously per §5 — each command runs its own cycle loop
// to completion before the next prompt is printed.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dsouflis/rete-reasoner/internal/chat"
	"github.com/dsouflis/rete-reasoner/internal/explain"
	"github.com/dsouflis/rete-reasoner/internal/fuzzy"
	"github.com/dsouflis/rete-reasoner/internal/model"
	"github.com/dsouflis/rete-reasoner/internal/obslog"
	"github.com/dsouflis/rete-reasoner/internal/parser"
	"github.com/dsouflis/rete-reasoner/internal/query"
	"github.com/dsouflis/rete-reasoner/internal/reasoner"
	"github.com/dsouflis/rete-reasoner/internal/rules"
	"github.com/dsouflis/rete-reasoner/internal/schema"
)

const prompt = "reasoner> "

var helpText = map[string]string{
	"":        "commands: quit, exit, bye, help [cmd], retract ID ATTR VAL, explain ID ATTR VAL, run <clauses>, clear. Anything else is sent to the chat assistant if enabled.",
	"quit":    "quit — end the session (aliases: exit, bye).",
	"exit":    "exit — end the session (aliases: quit, bye).",
	"bye":     "bye — end the session (aliases: quit, exit).",
	"help":    "help [cmd] — show this message, or detail for one command.",
	"retract": "retract ID ATTR VAL — withdraw one axiomatic or defuzzification-derived justification for the WME (id attr val); refused if none exists.",
	"explain": "explain ID ATTR VAL — print the justification tree for the WME (id attr val).",
	"run":     "run <clauses> — parse and execute one or more ';'-separated clauses (assert/production/query), then run the cycle driver to a fixed point.",
	"clear":   "clear — clear the terminal screen.",
}

// REPL drives the interactive session against a shared reasoner.Context.
type REPL struct {
	Ctx       *reasoner.Context
	Inventory *rules.Inventory
	Schema    *schema.Registry
	Fuzzy     *fuzzy.Registry
	Gate      *chat.Gate

	history []string
	client  *chat.Client

	Out io.Writer
	In  io.Reader
	// Confirm prompts the user for the first chat invocation; returns true
	// to proceed. Defaults to a stdin y/n prompt if nil.
	Confirm func() bool

	scanner *bufio.Scanner
}

// Run drives the command loop until quit/exit/bye or EOF.
func (r *REPL) Run() {
	r.scanner = bufio.NewScanner(r.In)
	fmt.Fprint(r.Out, prompt)
	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line != "" {
			if r.dispatch(line) {
				return
			}
		}
		fmt.Fprint(r.Out, prompt)
	}
}

// dispatch handles one input line, returning true if the session should end.
func (r *REPL) dispatch(line string) (quit bool) {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	switch cmd {
	case "quit", "exit", "bye":
		return true
	case "help":
		r.help(fields[1:])
	case "retract":
		r.retract(fields[1:])
	case "explain":
		r.explain(fields[1:])
	case "run":
		r.runClauses(strings.TrimSpace(strings.TrimPrefix(line, fields[0])))
	case "clear":
		fmt.Fprint(r.Out, "\033[H\033[2J")
	default:
		r.chatFallback(line)
	}
	return false
}

func (r *REPL) help(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.Out, helpText[""])
		return
	}
	if msg, ok := helpText[strings.ToLower(args[0])]; ok {
		fmt.Fprintln(r.Out, msg)
		return
	}
	fmt.Fprintf(r.Out, "no help for %q\n", args[0])
}

func (r *REPL) retract(args []string) {
	if len(args) != 3 {
		fmt.Fprintln(r.Out, "usage: retract ID ATTR VAL")
		return
	}
	if err := r.Ctx.Retract(args[0], args[1], args[2]); err != nil {
		obslog.CLI.Warnf("retract refused: %v", err)
		fmt.Fprintf(r.Out, "refused: %v\n", err)
		return
	}
	fmt.Fprintln(r.Out, "retracted.")
}

func (r *REPL) explain(args []string) {
	if len(args) != 3 {
		fmt.Fprintln(r.Out, "usage: explain ID ATTR VAL")
		return
	}
	key := model.Key{ID: args[0], Attr: args[1], Val: args[2]}
	fmt.Fprint(r.Out, explain.Tree(r.Ctx.Store, key))
}

func (r *REPL) runClauses(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		fmt.Fprintln(r.Out, "usage: run <clauses>")
		return
	}
	loader := parser.NewLoader(r.Inventory, r.Schema, r.Fuzzy, r.Ctx)
	body := strings.ReplaceAll(text, ";", "\n")
	if err := loader.Load(strings.NewReader(body)); err != nil {
		fmt.Fprintf(r.Out, "parse error: %v\n", err)
		return
	}
	res := r.Ctx.Run()
	if !res.Converged {
		fmt.Fprintf(r.Out, "warning: cycle limit %d exceeded; run declared non-convergent\n", r.Ctx.NMax)
	}
	for _, q := range loader.Queries {
		fmt.Fprint(r.Out, query.Run(r.Ctx.Matcher, q.LHS, q.Vars))
	}
}

func (r *REPL) chatFallback(prompt string) {
	if r.Gate == nil || !r.Gate.Available() {
		fmt.Fprintln(r.Out, "chat assistant unavailable (OPENAI_API_KEY not set)")
		return
	}
	confirm := r.Confirm
	if confirm == nil {
		confirm = r.defaultConfirm
	}
	if !r.Gate.Confirm(confirm) {
		fmt.Fprintln(r.Out, "chat assistant declined")
		return
	}
	if r.client == nil {
		r.client = chat.NewClient(r.Gate.APIKey(), "", "", 0)
	}
	reply, err := r.client.Ask(context.Background(), r.history, prompt)
	if err != nil {
		obslog.Chat.Warnf("chat request failed: %v", err)
		fmt.Fprintf(r.Out, "chat error: %v\n", err)
		return
	}
	r.history = append(r.history, prompt, reply)
	fmt.Fprintln(r.Out, reply)
}

func (r *REPL) defaultConfirm() bool {
	fmt.Fprint(r.Out, "send this and future prompts to the external chat assistant? [y/N] ")
	if !r.scanner.Scan() {
		return false
	}
	ans := strings.ToLower(strings.TrimSpace(r.scanner.Text()))
	return ans == "y" || ans == "yes"
}
