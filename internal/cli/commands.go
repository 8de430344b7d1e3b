package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"expensetracker/internal/amqp"
	"expensetracker/internal/backend"
	"expensetracker/internal/config"
	apphttp "expensetracker/internal/http"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/store"
)

// Options wires the command tree to its environment. Zero fields fall back
// to the process defaults.
type Options struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Config replaces config.Load when set.
	Config *config.Config
	// Prompter replaces the huh prompter when set.
	Prompter Prompter
	// Factory replaces the default backend factory when set.
	Factory backend.Factory
}

// runtime is what every subcommand needs once flags are parsed.
type runtime struct {
	cfg     *config.Config
	logger  *log.Logger
	svc     *services.ExpenseService
	app     *App
	cleanup []func() error
}

// close releases everything open acquired. Calling it twice is safe.
func (r *runtime) close() error {
	var errs []error
	for i := len(r.cleanup) - 1; i >= 0; i-- {
		if err := r.cleanup[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.cleanup = nil
	return errors.Join(errs...)
}

// NewRootCommand builds the expenses command tree.
func NewRootCommand(opts Options) *cobra.Command {
	root, _ := newRootCommand(opts)
	return root
}

func newRootCommand(opts Options) (*cobra.Command, *runtime) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	var (
		flagFile    string
		flagBackend string
		rt          = &runtime{}
	)

	prompter := func() Prompter {
		if opts.Prompter != nil {
			return opts.Prompter
		}
		return NewHuhPrompter(opts.In, opts.Out, os.Getenv("ACCESSIBLE") != "")
	}

	root := &cobra.Command{
		Use:           "expenses",
		Short:         "Personal expense tracker",
		Long:          "Record categorized expenses, filter them, chart them by category and serve them over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.Config
			if cfg == nil {
				loaded, err := config.Load()
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("file") {
				cfg.ExpensesFile = flagFile
			}
			if cmd.Flags().Changed("backend") {
				cfg.DataBackend = flagBackend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return rt.open(cmd.Context(), cfg, opts)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return rt.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunMenu(cmd.Context(), rt.app, prompter())
		},
	}
	root.SetIn(opts.In)
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)

	root.PersistentFlags().StringVarP(&flagFile, "file", "f", config.DefaultExpensesFile, "CSV file holding the expenses")
	root.PersistentFlags().StringVarP(&flagBackend, "backend", "b", config.BackendCSV,
		fmt.Sprintf("Storage backend %v", backend.GetBackendTypeStrings()))

	var flagTable bool
	tableFlag := func(c *cobra.Command) {
		c.Flags().BoolVarP(&flagTable, "table", "t", false, "Render results as a table")
	}

	addCmd := &cobra.Command{
		Use:     "add <category> <amount> <date>",
		Short:   "Record an expense (date as YYYY-MM-DD)",
		Example: "  expenses add Food 12.50 2024-01-15",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.app.Add(cmd.Context(), args[0], args[1], args[2])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show all expenses",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			rt.app.Table = flagTable
			rt.app.List()
			return nil
		},
	}
	tableFlag(listCmd)

	filterCmd := &cobra.Command{
		Use:   "filter",
		Short: "Show expenses matching a category or a date",
	}
	filterCategoryCmd := &cobra.Command{
		Use:   "category <category>",
		Short: "Expenses in a category (case-insensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			rt.app.Table = flagTable
			rt.app.FilterByCategory(args[0])
			return nil
		},
	}
	filterDateCmd := &cobra.Command{
		Use:   "date <YYYY-MM-DD>",
		Short: "Expenses on an exact date",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			rt.app.Table = flagTable
			rt.app.FilterByDate(args[0])
			return nil
		},
	}
	tableFlag(filterCategoryCmd)
	tableFlag(filterDateCmd)
	filterCmd.AddCommand(filterCategoryCmd, filterDateCmd)

	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Chart expenses by category",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			rt.app.Chart()
			return nil
		},
	}

	var flagYes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok := flagYes
			if !ok {
				var err error
				ok, err = prompter().Confirm(cmd.Context(), "Are you sure you want to clear all expenses?")
				if errors.Is(err, ErrAborted) {
					ok = false
				} else if err != nil {
					return err
				}
			}
			return rt.app.Clear(cmd.Context(), ok)
		},
	}
	clearCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunMenu(cmd.Context(), rt.app, prompter())
		},
	}

	var flagPort string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			port := rt.cfg.Port
			if cmd.Flags().Changed("port") {
				port = flagPort
			}
			return serve(rt, ":"+port)
		},
	}
	serveCmd.Flags().StringVarP(&flagPort, "port", "p", "", "Listen port (default from PORT)")

	root.AddCommand(addCmd, listCmd, filterCmd, chartCmd, clearCmd, menuCmd, serveCmd)
	return root, rt
}

// open builds the logger, the backend, the store and the service.
func (r *runtime) open(ctx context.Context, cfg *config.Config, opts Options) error {
	r.cfg = cfg
	r.logger = log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentCLI,
		Output:    opts.Err,
	})

	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	factory := opts.Factory
	if factory == nil {
		factory = backend.NewFactory(r.logger)
	}
	res, err := factory.CreateBackend(ctx, bc)
	if err != nil {
		return err
	}
	r.cleanup = append(r.cleanup, res.Close)

	st, err := store.New(ctx, res.Persister, store.WithLogger(r.logger))
	if err != nil {
		return err
	}

	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, r.logger)
		if err != nil {
			r.logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			publisher = client
		}
	}

	r.svc = services.NewExpenseService(st, publisher, r.logger)
	r.cleanup = append(r.cleanup, r.svc.Close)
	r.app = NewApp(r.svc, opts.Out, cfg.CurrencySymbol, cfg.ChartWidth)
	return nil
}

func serve(rt *runtime, addr string) error {
	srv := apphttp.NewServer(addr, rt.svc, rt.logger, rt.cfg.CurrencySymbol)

	ctx, done := GracefulShutdown(rt.logger, rt.cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			rt.logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	rt.logger.Info("Starting expenses server", "addr", addr, log.FieldBackend, rt.cfg.DataBackend, "location", rt.svc.Location())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", addr, err)
	}

	WaitForShutdown(ctx, done)
	rt.logger.Info("Server stopped gracefully")
	return nil
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, opts Options) int {
	root, rt := newRootCommand(opts)
	// PersistentPostRunE is skipped when a command fails.
	defer func() { _ = rt.close() }()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), RenderError(describeError(err)))
		return 1
	}
	return 0
}
