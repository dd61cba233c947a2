// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// gff inspects, checks, edits and generates GFF documents.
//
//	gff [global flags] dump <file>
//	gff [global flags] verify <file>
//	gff [global flags] set [--struct id] [--out file] <file> <label> <value>
//	gff [global flags] journal [--out file] <categories.yaml>
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/bpowers/gff"
)

type command struct {
	usage   string
	summary string
	run     func(e *env, flags *pflag.FlagSet, args []string) error
}

var commands = map[string]command{
	"dump": {
		usage:   "dump [--lang id] <file>",
		summary: "print a document as YAML",
		run:     runDump,
	},
	"verify": {
		usage:   "verify <file>",
		summary: "check that a document decodes and re-encodes byte for byte",
		run:     runVerify,
	},
	"set": {
		usage:   "set [--struct id] [--out file] <file> <label> <value>",
		summary: "change the value of one field",
		run:     runSet,
	},
	"journal": {
		usage:   "journal [--out file] <categories.yaml>",
		summary: "generate a journal from a list of categories",
		run:     runJournal,
	},
}

// env is the state shared by every subcommand.
type env struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
	base   int64
	cp1252 bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "gff: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	e := &env{
		stdout: stdout,
		stderr: stderr,
	}

	flags := pflag.NewFlagSet("gff", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.SetInterspersed(false)
	logLevel := flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.Int64Var(&e.base, "base", 0, "byte offset of the document inside the input file")
	flags.BoolVar(&e.cp1252, "cp1252", true, "treat string payloads as Windows-1252 text")
	flags.Usage = func() {
		printUsage(stderr, flags)
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	level, err := parseLevel(*logLevel)
	if err != nil {
		return err
	}
	e.logger = newLogger(stderr, level)

	if flags.NArg() == 0 {
		printUsage(stderr, flags)
		return pflag.ErrHelp
	}
	name := flags.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	if err := cmd.run(e, e.subcommandFlags(name, cmd.usage), flags.Args()[1:]); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func printUsage(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintf(w, "usage: gff [flags] <command> [args]\n\ncommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-60s %s\n", commands[name].usage, commands[name].summary)
	}
	fmt.Fprintf(w, "\nflags:\n%s", flags.FlagUsages())
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// newLogger logs to w, in colour when w is a terminal.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
		w = colorable.NewColorable(f)
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}))
}

// subcommandFlags returns a flag set for a subcommand that reports errors
// to the shared stderr.
func (e *env) subcommandFlags(name, usage string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(e.stderr)
	flags.Usage = func() {
		fmt.Fprintf(e.stderr, "usage: gff %s\n%s", usage, flags.FlagUsages())
	}
	return flags
}

func (e *env) options() []gff.Option {
	return []gff.Option{gff.WithLogger(e.logger)}
}

// load decodes the document at e.base in path.
func (e *env) load(path string) (*gff.Document, error) {
	if e.base == 0 {
		return gff.Open(path, e.options()...)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	d, err := gff.Decode(f, e.base, e.options()...)
	if err != nil {
		return nil, fmt.Errorf("decode %s at %d: %w", path, e.base, err)
	}
	return d, nil
}
