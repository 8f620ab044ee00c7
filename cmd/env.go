package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/drill/internal/config"
	"github.com/abhisek/drill/internal/drill"
	"github.com/abhisek/drill/internal/mastery"
	"github.com/abhisek/drill/internal/render"
	"github.com/abhisek/drill/internal/search"
	"github.com/abhisek/drill/internal/spacedrep"
	"github.com/abhisek/drill/internal/store"
	"github.com/abhisek/drill/internal/topics"
)

// env is everything a command needs, built from configuration.
type env struct {
	cfg    config.Config
	owner  string
	logger *slog.Logger
	out    io.Writer
	theme  *render.Theme

	store      *store.Store
	questions  store.QuestionRepo
	pins       store.PinRepo
	dispatcher *search.Dispatcher

	drill      *drill.Service
	aggregator *mastery.Aggregator
	selector   *topics.Selector
}

// tagSource combines the question and pin repos into the selector's view.
type tagSource struct {
	store.QuestionRepo
	store.PinRepo
}

// openEnv loads configuration, opens the store and wires the services.
// Callers must Close the result.
func openEnv(cmd *cobra.Command) (*env, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath, cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}
	logger := config.NewLogger(cfg.Log, cmd.ErrOrStderr())

	dbPath, err := resolveDBPath(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", "path", dbPath, "owner", cfg.Owner)

	e := &env{
		cfg:       cfg,
		owner:     cfg.Owner,
		logger:    logger,
		out:       cmd.OutOrStdout(),
		theme:     render.For(cmd.OutOrStdout()),
		store:     st,
		questions: st.QuestionRepo(),
		pins:      st.PinRepo(),
	}

	var sink search.Sink = search.Discard
	if cfg.Index.Enabled {
		e.dispatcher = search.NewDispatcher(st.SearchIndex(), cfg.Index.QueueSize, logger)
		sink = e.dispatcher
	}

	e.drill = drill.NewService(e.questions, st.EventRepo(),
		drill.WithScheduler(spacedrep.NewScheduler(cfg.Scheduler.Params())),
		drill.WithIndex(sink),
		drill.WithMaxAttempts(cfg.Review.MaxAttempts),
		drill.WithLogger(logger),
	)
	e.aggregator = mastery.NewAggregator(e.questions)
	e.selector = topics.NewSelector(tagSource{e.questions, e.pins}, e.aggregator)
	return e, nil
}

// Close flushes pending index updates and closes the store.
func (e *env) Close() {
	if e.dispatcher != nil {
		e.dispatcher.Close()
	}
	if err := e.store.Close(); err != nil {
		e.logger.Warn("close store", "error", err)
	}
}

// withEnv adapts a function taking an env into a cobra RunE.
func withEnv(fn func(cmd *cobra.Command, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(cmd, e, args)
	}
}
