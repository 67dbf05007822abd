package commands

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/topogen/topogen/pkg/compiler"
	"github.com/topogen/topogen/pkg/telemetry"
)

func newWatchCommand() *cobra.Command {
	var (
		schemaValidation bool
	)

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Recompile topology configuration on change",
		Long: `Watch topology configuration paths and recompile whenever a file changes.

Changes are debounced, so a burst of writes triggers a single
recompilation. The command runs until interrupted.`,
		Example: `  # Watch the current directory
  topogen watch

  # Watch a config directory with schema pre-validation
  topogen watch --schema-validation ./configs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}

			c, err := compiler.New(compiler.Options{
				Paths:            paths,
				SchemaValidation: schemaValidation,
			}, log.Logger)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			// Surface compilation lifecycle events in the log stream.
			tel, err := telemetry.NewTelemetry(telemetry.DefaultConfig())
			if err != nil {
				return err
			}
			defer func() { _ = tel.Shutdown(context.Background()) }()

			tel.Events.Subscribe(func(event telemetry.Event) {
				log.Debug().
					Str("event", event.Type).
					Str("run_id", event.RunID).
					Msg(event.Message)
			}, nil)
			c = c.WithEvents(tel.Events)

			// Initial compilation; failures are reported but do not stop
			// the watch.
			if result, err := c.Compile(ctx); err != nil {
				log.Error().Err(err).Msg("Initial compilation failed")
			} else if err := printResult(result); err != nil {
				return err
			}

			w := compiler.NewWatcher(c, log.Logger)
			if err := w.Start(ctx, func(result *compiler.Result) {
				if err := printResult(result); err != nil {
					log.Error().Err(err).Msg("Failed to render result")
				}
			}); err != nil {
				return err
			}
			defer func() { _ = w.Stop() }()

			<-ctx.Done()
			log.Info().Msg("Watch stopped")

			return nil
		},
	}

	cmd.Flags().BoolVar(&schemaValidation, "schema-validation", false, "pre-validate documents against CUE schemas")

	return cmd
}
