// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"skryi/internal/batch"
	"skryi/internal/config"
	"skryi/internal/core"
	"skryi/internal/documents"
	"skryi/internal/metrics"
	"skryi/internal/observability"
	"skryi/internal/rules"
	"skryi/internal/version"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries the process exit code for an error
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: exitUsage, err: err}
}

// exitCodeFor maps an error to the process exit code. Configuration errors
// and unusable input paths are usage errors; everything else is a
// processing failure.
func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, config.ErrInvalid) ||
		errors.Is(err, documents.ErrNotFound) ||
		errors.Is(err, documents.ErrUnsupportedFormat) {
		return exitUsage
	}
	return exitFailure
}

// cliFlags holds command line flag values
type cliFlags struct {
	configFile string
	profile    string
	namesFile  string
	outputDir  string
	mapFormat  string
	jsonResult bool
	debug      bool
	noColor    bool

	recursive bool
	workers   int

	guards bool
	source bool
}

// runtimeEnv is the resolved configuration of one invocation
type runtimeEnv struct {
	cfg      *config.Config
	observer *observability.StandardObserver
	metrics  *metrics.Metrics
	engine   *core.Engine
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCodeFor(err))
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:   "skryi",
		Short: "Anonymize Czech documents",
		Long: `skryi replaces personal data in Czech documents (.docx, .txt, .pdf) with
stable labels such as [[PERSON_1]] and writes a replacement map next to
the anonymized copy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError(err) })

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "configuration file (default: ./skryi.yaml or the user config directory)")
	pf.StringVar(&flags.profile, "profile", "", "configuration profile to apply")
	pf.StringVar(&flags.namesFile, "names", "", "names dictionary JSON (default: embedded)")
	pf.BoolVar(&flags.debug, "debug", false, "trace every processing step to stderr")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newAnonymizeCmd(flags),
		newBatchCmd(flags),
		newRulesCmd(flags),
		newVersionCmd(),
	)
	return root
}

func addOutputFlags(cmd *cobra.Command, flags *cliFlags) {
	cmd.Flags().StringVarP(&flags.outputDir, "output", "o", "", "output directory (default: next to the input)")
	cmd.Flags().StringVar(&flags.mapFormat, "map-format", "", "comma-separated map formats: json,txt,yaml")
	cmd.Flags().BoolVar(&flags.jsonResult, "json-result", false, "print a machine-readable JSON result to stdout")
}

func exactArgs(n int) cobra.PositionalArgs {
	check := cobra.ExactArgs(n)
	return func(cmd *cobra.Command, args []string) error {
		return usageError(check(cmd, args))
	}
}

// setup resolves configuration, observability and the shared engine
func setup(cmd *cobra.Command, flags *cliFlags) (*runtimeEnv, error) {
	cfg, err := config.LoadConfigOrDefault(flags.configFile)
	if err != nil {
		if flags.configFile != "" {
			return nil, usageError(err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Error loading config file: %v\nUsing default configuration\n", err)
	}
	if flags.profile != "" {
		if err := cfg.ApplyProfile(flags.profile); err != nil {
			return nil, usageError(err)
		}
	}
	if flags.namesFile != "" {
		cfg.Defaults.NamesFile = flags.namesFile
	}
	if flags.outputDir != "" {
		cfg.Defaults.OutputDir = flags.outputDir
	}
	if flags.mapFormat != "" {
		cfg.Defaults.MapFormats = splitList(flags.mapFormat)
	}
	if flags.workers > 0 {
		cfg.Defaults.Workers = flags.workers
	}
	if flags.noColor {
		cfg.Defaults.NoColor = true
	}
	if flags.debug {
		cfg.Defaults.LogLevel = "debug"
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, usageError(err)
	}

	if cfg.Defaults.NoColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	env := &runtimeEnv{cfg: cfg, observer: newObserver(cmd.ErrOrStderr(), cfg, flags.debug)}
	if cfg.Metrics.Textfile != "" {
		env.metrics = metrics.New()
	}
	env.engine, err = core.BuildEngine(cfg, env.observer)
	if err != nil {
		return nil, err
	}
	return env, nil
}

func newObserver(w io.Writer, cfg *config.Config, debug bool) *observability.StandardObserver {
	if debug {
		return observability.NewDebugObserver(w).StandardObserver
	}
	level := observability.ParseLevel(cfg.Defaults.LogLevel)
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		return observability.NewConsoleObserver(level, w, cfg.Defaults.NoColor)
	}
	return observability.NewStandardObserver(level, w)
}

func (env *runtimeEnv) anonymizeConfig() core.AnonymizeConfig {
	return core.AnonymizeConfig{
		OutputDir:  env.cfg.Defaults.OutputDir,
		MapFormats: env.cfg.Defaults.MapFormats,
		Redact:     env.cfg.Rules.SensitiveMode == config.SensitiveRedact,
		Engine:     env.engine,
		Observer:   env.observer,
		Metrics:    env.metrics,
	}
}

func (env *runtimeEnv) flushMetrics() {
	if err := env.metrics.WriteTextfile(env.cfg.Metrics.Textfile); err != nil {
		env.observer.Warn("metrics", "metrics textfile not written", err)
	}
}

func newAnonymizeCmd(flags *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anonymize <file>",
		Short: "Anonymize one document",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, flags)
			if err != nil {
				return reportFailure(cmd, flags, err)
			}
			defer env.flushMetrics()

			job := env.anonymizeConfig()
			job.FilePath = args[0]
			res, err := core.AnonymizeFile(cmd.Context(), job)
			if err != nil {
				return reportFailure(cmd, flags, err)
			}
			if flags.jsonResult {
				return writeJSON(cmd.OutOrStdout(), newFileResult(res))
			}
			printSummary(cmd.OutOrStdout(), res)
			return nil
		},
	}
	addOutputFlags(cmd, flags)
	return cmd
}

func newBatchCmd(flags *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Anonymize every supported document in a folder",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, flags)
			if err != nil {
				return reportFailure(cmd, flags, err)
			}
			defer env.flushMetrics()

			out := cmd.OutOrStdout()
			var progress batch.ProgressCallback
			if !flags.jsonResult {
				progress = func(done, total int, file string) {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %s\n", done, total, file)
				}
			}
			results, stats, err := batch.Run(cmd.Context(), batch.Config{
				Dir:       args[0],
				Recursive: flags.recursive,
				Workers:   env.cfg.Defaults.Workers,
				Template:  env.anonymizeConfig(),
			}, progress)
			if stats == nil {
				return reportFailure(cmd, flags, usageError(err))
			}

			if flags.jsonResult {
				if jerr := writeJSON(out, newBatchResult(results, stats)); jerr != nil {
					return jerr
				}
			} else {
				printBatchSummary(out, results, stats)
			}
			if err != nil {
				return err
			}
			if stats.FailedFiles > 0 {
				return &exitError{code: exitFailure, err: fmt.Errorf("%d of %d documents failed", stats.FailedFiles, stats.TotalFiles)}
			}
			return nil
		},
	}
	addOutputFlags(cmd, flags)
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "include subfolders")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "documents processed in parallel (default from config)")
	return cmd
}

func newRulesCmd(flags *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the ordered rule table",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			switch {
			case flags.guards:
				for _, name := range rules.GuardNames() {
					fmt.Fprintln(out, name)
				}
				return nil
			case flags.source:
				_, err := out.Write(rules.DefaultSource())
				return err
			}
			env, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			printRules(out, env.engine.Rules)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.guards, "guards", false, "list the guard names rules may reference")
	cmd.Flags().BoolVar(&flags.source, "source", false, "print the embedded rule table YAML")
	return cmd
}

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), version.Full())
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

// fileResult is the --json-result document for one file
type fileResult struct {
	Success       bool   `json:"success"`
	Input         string `json:"input,omitempty"`
	Output        string `json:"output,omitempty"`
	MapJSON       string `json:"map_json,omitempty"`
	MapTXT        string `json:"map_txt,omitempty"`
	MapYAML       string `json:"map_yaml,omitempty"`
	PersonsFound  int    `json:"persons_found"`
	EntitiesTotal int    `json:"entities_total"`
	Error         string `json:"error,omitempty"`
}

func newFileResult(res *core.AnonymizeResult) fileResult {
	return fileResult{
		Success:       true,
		Input:         res.Source,
		Output:        res.Output,
		MapJSON:       res.MapPath("json"),
		MapTXT:        res.MapPath("txt"),
		MapYAML:       res.MapPath("yaml"),
		PersonsFound:  res.PersonsFound,
		EntitiesTotal: res.EntitiesTotal,
	}
}

type batchResult struct {
	Success bool         `json:"success"`
	Stats   *batch.Stats `json:"stats"`
	Files   []fileResult `json:"files"`
}

func newBatchResult(results []batch.FileResult, stats *batch.Stats) batchResult {
	out := batchResult{Success: stats.FailedFiles == 0, Stats: stats}
	for _, r := range results {
		if r.Err != nil {
			out.Files = append(out.Files, fileResult{Input: r.Path, Error: r.Err.Error()})
			continue
		}
		out.Files = append(out.Files, newFileResult(r.Result))
	}
	return out
}

// reportFailure prints the JSON failure document when asked for one and
// passes err through for the exit code
func reportFailure(cmd *cobra.Command, flags *cliFlags, err error) error {
	if flags.jsonResult {
		_ = writeJSON(cmd.OutOrStdout(), fileResult{Error: err.Error()})
	}
	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSummary(w io.Writer, res *core.AnonymizeResult) {
	ok := color.New(color.FgGreen, color.Bold)
	label := color.New(color.FgCyan)

	ok.Fprintf(w, "Anonymized %s\n", res.Source)
	label.Fprint(w, "  Output:   ")
	fmt.Fprintln(w, res.Output)
	formats := make([]string, 0, len(res.Maps))
	for f := range res.Maps {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	for _, f := range formats {
		label.Fprintf(w, "  Map %-5s ", f+":")
		fmt.Fprintln(w, res.Maps[f])
	}
	label.Fprint(w, "  Persons:  ")
	fmt.Fprintln(w, res.PersonsFound)
	label.Fprint(w, "  Entities: ")
	fmt.Fprintln(w, res.EntitiesTotal)
	if res.Merged > 0 || res.Pruned > 0 {
		label.Fprint(w, "  Merged/pruned persons: ")
		fmt.Fprintf(w, "%d/%d\n", res.Merged, res.Pruned)
	}

	kinds := make([]string, 0, len(res.Counts))
	for k, n := range res.Counts {
		if n > 0 {
			kinds = append(kinds, k)
		}
	}
	sort.Strings(kinds)
	if len(kinds) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  KIND\tREPLACED")
	for _, k := range kinds {
		fmt.Fprintf(tw, "  %s\t%d\n", k, res.Counts[k])
	}
	_ = tw.Flush()
}

func printBatchSummary(w io.Writer, results []batch.FileResult, stats *batch.Stats) {
	ok := color.New(color.FgGreen)
	fail := color.New(color.FgRed)
	for _, r := range results {
		if r.Err != nil {
			fail.Fprint(w, "FAIL ")
			fmt.Fprintf(w, "%s: %v\n", r.Path, r.Err)
			continue
		}
		ok.Fprint(w, "OK   ")
		fmt.Fprintf(w, "%s -> %s (%d persons, %d entities)\n", r.Path, r.Result.Output, r.Result.PersonsFound, r.Result.EntitiesTotal)
	}
	fmt.Fprintf(w, "\n%d processed, %d failed, %d workers, %s\n",
		stats.ProcessedFiles, stats.FailedFiles, stats.WorkerCount, stats.TotalDuration.Round(time.Millisecond))
}

func printRules(w io.Writer, table *rules.Table) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tRULE\tKIND\tENABLED\tDESCRIPTION")
	for _, r := range table.All() {
		kind := r.Kind
		if r.IsMask() {
			kind = "mask " + r.Mask
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", r.Stage, r.Name, kind, r.IsEnabled(), r.Description)
	}
	_ = tw.Flush()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
