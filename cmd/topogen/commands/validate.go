package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/topogen/topogen/pkg/compiler"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Validate topology configuration files",
		Long: `Validate topology configuration files without emitting output.

This command checks:
  - YAML syntax validity
  - CUE schema conformance of every document
  - Class and object semantics (constraints, mandatory attributes,
    deprecated attributes, name lengths)`,
		Example: `  # Validate configs in the current directory
  topogen validate

  # Validate a specific directory
  topogen validate ./configs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}

			c, err := compiler.New(compiler.Options{
				Paths:            paths,
				SchemaValidation: true,
			}, log.Logger)
			if err != nil {
				return err
			}

			result, err := c.Compile(cmd.Context())
			if err != nil {
				return err
			}

			log.Info().
				Int("files", len(result.Files)).
				Int("classes", len(result.Registry.Classes())).
				Int("objects", len(result.Objects)).
				Msg("Configuration is valid")

			fmt.Printf("OK: %d files, %d classes, %d objects\n",
				len(result.Files), len(result.Registry.Classes()), len(result.Objects))

			return nil
		},
	}

	return cmd
}
