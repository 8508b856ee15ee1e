package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/metaygn/aletheia-hooks/internal/schema"
)

var (
	schemaOutput  string
	schemaCompact bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema [config|hook-input|hook-output]",
	Short: "Generate JSON Schema",
	Long: `Generate a JSON Schema (Draft 2020-12) for the configuration file, the
event document read from stdin, or the decision document written to stdout.

Examples:
  aletheia-hooks schema                              # Config schema to stdout
  aletheia-hooks schema hook-input                   # Event input schema
  aletheia-hooks schema --output config.schema.json  # Write to file
  aletheia-hooks schema --compact                    # Compact output`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: schemaKindNames(),
	RunE:      runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringVarP(&schemaOutput, "output", "o", "", "Write schema to file instead of stdout")
	schemaCmd.Flags().BoolVar(&schemaCompact, "compact", false, "Output compact JSON without indentation")
}

func schemaKindNames() []string {
	names := make([]string, 0, len(schema.Kinds))
	for _, k := range schema.Kinds {
		names = append(names, string(k))
	}

	return names
}

func runSchema(cmd *cobra.Command, args []string) error {
	kind := schema.KindConfig
	if len(args) == 1 {
		kind = schema.Kind(args[0])
	}

	data, err := schema.GenerateJSON(kind, !schemaCompact)
	if err != nil {
		if errors.Is(err, schema.ErrUnknownKind) {
			return errors.WithHintf(err, "valid kinds: %s", strings.Join(schemaKindNames(), ", "))
		}

		return errors.Wrap(err, "generating schema")
	}

	if schemaOutput != "" {
		const filePerms = 0o644

		if writeErr := os.WriteFile(schemaOutput, data, filePerms); writeErr != nil {
			return errors.Wrap(writeErr, "writing schema file")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", schemaOutput)

		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)

	return errors.Wrap(err, "writing schema")
}
