package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-openapi/jsonreference"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flavono123/peek/internal/config"
	"github.com/flavono123/peek/internal/expansion"
	"github.com/flavono123/peek/internal/explorer"
	"github.com/flavono123/peek/internal/present"
	"github.com/flavono123/peek/internal/source"
	"github.com/flavono123/peek/internal/store"
	"github.com/flavono123/peek/internal/ui"
	"github.com/flavono123/peek/internal/value"
)

const version = "0.1.0"

type rootOptions struct {
	configPath string
	at         string
	query      string
	format     string
	policy     string
	depth      int
	items      int
	noCycles   bool
	print      bool
	full       bool
	watch      bool
	remember   bool
}

// target is a loaded root plus what is needed to reload and remember it.
type target struct {
	label  string
	root   any
	reload func() (any, error)
	// watchPath is the file to watch, empty when the source cannot change.
	watchPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "peek [files...]",
		Short: "Explore nested data as a collapsible tree",
		Long: `peek flattens JSON, YAML, SQLite tables, Kubernetes objects or the
environment into a tree you can fold and search. Reads standard input
when no file or "-" is given.`,
		Args:          cobra.ArbitraryArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{source.Stdin}
			}
			t, err := fileTarget(cmd.Context(), args, opts)
			if err != nil {
				return err
			}
			return run(cmd, opts, t)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/peek/config.yaml)")
	flags.StringVar(&opts.at, "at", "", `start at a JSON reference, e.g. "#/spec/containers"`)
	flags.StringVar(&opts.policy, "policy", "", "initial expansion: "+strings.Join(policyNames, ", "))
	flags.IntVar(&opts.depth, "depth", 0, "maximum depth (at most 15)")
	flags.IntVar(&opts.items, "items", 0, "maximum children per level (at most 500)")
	flags.BoolVar(&opts.noCycles, "no-cycles", false, "disable cycle detection")
	flags.BoolVar(&opts.print, "print", false, "print the rows and exit")
	flags.BoolVar(&opts.full, "full", false, "show values untruncated")
	flags.BoolVar(&opts.remember, "remember", false, "restore and save expansion state for this source")

	cmd.Flags().StringVar(&opts.query, "query", "", "gjson path applied to JSON input")
	cmd.Flags().StringVar(&opts.format, "format", "", "input format: json or yaml (default by extension)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload when the file changes")

	cmd.AddCommand(newSQLiteCommand(opts))
	cmd.AddCommand(newKubeCommand(opts))
	cmd.AddCommand(newEnvCommand(opts))

	return cmd
}

func fileTarget(ctx context.Context, paths []string, opts *rootOptions) (target, error) {
	loadOpts := source.LoadOptions{Query: opts.query}
	switch strings.ToLower(opts.format) {
	case "":
	case "json":
		loadOpts.Format = source.FormatJSON
	case "yaml", "yml":
		loadOpts.Format = source.FormatYAML
	default:
		return target{}, fmt.Errorf("%w: %q", source.ErrUnsupportedFormat, opts.format)
	}

	load := func() (any, error) {
		return source.LoadFiles(ctx, paths, loadOpts)
	}
	root, err := load()
	if err != nil {
		return target{}, err
	}

	t := target{label: sourceLabel(paths), root: root, reload: load}
	if opts.watch {
		if len(paths) != 1 || paths[0] == source.Stdin {
			return target{}, fmt.Errorf("--watch needs exactly one file")
		}
		t.watchPath = paths[0]
	}
	return t, nil
}

func sourceLabel(paths []string) string {
	labels := make([]string, len(paths))
	for i, p := range paths {
		if abs, err := filepath.Abs(p); err == nil && p != source.Stdin {
			p = abs
		}
		labels[i] = p
	}
	return strings.Join(labels, ",")
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFrom(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("policy") {
		cfg.Explorer.Policy = opts.policy
	}
	if flags.Changed("depth") {
		cfg.Explorer.MaxDepth = opts.depth
	}
	if flags.Changed("items") {
		cfg.Explorer.ItemsPerLevel = opts.items
	}
	if flags.Changed("no-cycles") {
		detect := !opts.noCycles
		cfg.Explorer.DetectCycles = &detect
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger() (*zap.Logger, error) {
	if len(os.Getenv("DEBUG")) == 0 {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"debug.log"}
	cfg.ErrorOutputPaths = []string{"debug.log"}
	return cfg.Build()
}

// applyAt narrows root to the node a JSON reference points at.
func applyAt(root any, at string) (any, error) {
	if at == "" {
		return root, nil
	}
	if strings.HasPrefix(at, "/") {
		at = "#" + at
	}
	ref, err := jsonreference.New(at)
	if err != nil {
		return nil, fmt.Errorf("parsing --at %q: %w", at, err)
	}
	ptr := ref.GetPointer()
	if ptr == nil {
		return root, nil
	}
	return value.Lookup(root, ptr.DecodedTokens())
}

func run(cmd *cobra.Command, opts *rootOptions, t target) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to log to file: %w", err)
	}
	defer func() { _ = log.Sync() }()

	root, err := applyAt(t.root, opts.at)
	if err != nil {
		return err
	}

	flattenOpts := cfg.FlattenOptions()
	flattenOpts.Logger = log
	session := explorer.NewSession(root, explorer.Options{
		Flatten: flattenOpts,
		Policy:  cfg.ExpansionPolicy(),
	})

	var st *store.Store
	if opts.remember {
		if st, err = openStore(); err != nil {
			return err
		}
		if s, err := st.FindBySource(t.label); err == nil {
			session.Restore(s.Expanded)
			log.Debug("restored session", zap.String("source", t.label), zap.Int("expanded", len(s.Expanded)))
		}
	}

	mode := present.Compact
	if opts.full {
		mode = present.Full
	}

	if opts.print {
		if err := printRows(cmd.Context(), cmd.OutOrStdout(), session, cfg.Presenter(), mode); err != nil {
			return err
		}
	} else if err := runProgram(cmd.Context(), cfg, session, t, opts.at, mode, log); err != nil {
		return err
	}

	if st != nil {
		if _, err := st.Upsert(t.label, session.Snapshot()); err != nil {
			return err
		}
		return st.Save()
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.NewStore()
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	if err := st.Load(); err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}
	return st, nil
}

func runProgram(ctx context.Context, cfg config.Config, session *explorer.Session, t target, at string, mode present.Mode, log *zap.Logger) error {
	title := t.label
	if at != "" {
		title += " " + at
	}
	model := ui.NewModel(session, ui.Options{
		Title:     title,
		Theme:     cfg.Theme(),
		Presenter: cfg.Presenter(),
		Layout:    cfg.Layout(),
		Mode:      mode,
		Logger:    log,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if t.watchPath != "" {
		ctx, cancel := context.WithCancel(ctx)
		stopped := make(chan struct{})
		// No reload may reach program after it has exited.
		defer func() {
			cancel()
			<-stopped
		}()

		w, err := source.NewWatcher(t.watchPath,
			source.WithLogger(log),
			source.WithOnChange(func() {
				if ctx.Err() != nil {
					return
				}
				root, err := t.reload()
				if err == nil {
					root, err = applyAt(root, at)
				}
				program.Send(ui.RootMsg{Root: root, Err: err})
			}),
		)
		if err != nil {
			close(stopped)
			return err
		}
		go func() {
			defer close(stopped)
			if err := w.Run(ctx); err != nil {
				log.Warn("watcher stopped", zap.Error(err))
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run program: %w", err)
	}
	return nil
}

// printRows writes the rows of one flatten pass as indented plain text.
func printRows(ctx context.Context, w io.Writer, session *explorer.Session, p present.Presenter, mode present.Mode) error {
	rows, err := session.Rebuild(ctx)
	if err != nil {
		return err
	}
	for _, row := range rows {
		marker := "  "
		if row.Expandable {
			marker = "+ "
			if row.Expanded && !row.DepthLimited {
				marker = "- "
			}
		}
		if _, err := fmt.Fprintf(w, "%s%s%s: %s\n",
			strings.Repeat(" ", row.Depth*2), marker, row.Key, p.FormatRow(row, mode)); err != nil {
			return err
		}
	}
	return nil
}

// policyNames lists the accepted --policy values.
var policyNames = []string{
	expansion.Collapsed.String(),
	expansion.ExpandFirstLevel.String(),
	expansion.ExpandAll.String(),
}
