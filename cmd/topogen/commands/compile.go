package commands

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/topogen/topogen/pkg/compiler"
	"github.com/topogen/topogen/pkg/object"
)

func newCompileCommand() *cobra.Command {
	var (
		schemaValidation bool
	)

	cmd := &cobra.Command{
		Use:   "compile [paths...]",
		Short: "Compile topology configuration into classes and objects",
		Long: `Compile topology configuration files into classes and objects.

Paths are compiled in order; directories contribute their YAML files in
lexical order. Class definitions must be compiled before the objects that
instantiate them.`,
		Example: `  # Compile configs in the current directory
  topogen compile

  # Compile specific files in order
  topogen compile classes.yaml objects.yaml

  # Compile with CUE schema pre-validation
  topogen compile --schema-validation ./configs`,
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

			result, err := c.Compile(cmd.Context())
			if err != nil {
				return err
			}

			return printResult(result)
		},
	}

	cmd.Flags().BoolVar(&schemaValidation, "schema-validation", false, "pre-validate documents against CUE schemas")

	return cmd
}

type attributeSummary struct {
	Name  string      `json:"name" yaml:"name"`
	Value interface{} `json:"value" yaml:"value"`
}

type objectSummary struct {
	Name       string             `json:"name" yaml:"name"`
	Class      string             `json:"class" yaml:"class"`
	Attributes []attributeSummary `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Children   []objectSummary    `json:"children,omitempty" yaml:"children,omitempty"`
}

type compileSummary struct {
	RunID   string          `json:"run_id" yaml:"run_id"`
	Files   []string        `json:"files" yaml:"files"`
	Classes []string        `json:"classes" yaml:"classes"`
	Objects []objectSummary `json:"objects" yaml:"objects"`
}

func printResult(result *compiler.Result) error {
	summary := compileSummary{
		RunID: result.RunID,
		Files: result.Files,
	}
	for _, class := range result.Registry.Classes() {
		summary.Classes = append(summary.Classes, class.Name)
	}
	for _, obj := range result.Objects {
		summary.Objects = append(summary.Objects, summarizeObject(obj))
	}

	var out []byte
	var err error
	if jsonOutput {
		out, err = json.MarshalIndent(summary, "", "  ")
	} else {
		out, err = yaml.Marshal(summary)
	}
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}

	fmt.Println(string(out))
	return nil
}

func summarizeObject(obj *object.Object) objectSummary {
	summary := objectSummary{
		Name:  obj.Name,
		Class: obj.ClassName,
	}

	for _, attr := range obj.Attributes {
		if !attr.Found {
			continue
		}

		var value interface{}
		switch attr.Kind {
		case object.ValueInteger:
			value = attr.Integer
		case object.ValueString:
			value = attr.String
		case object.ValueCompound:
			value = attr.Node.Interface()
		default:
			continue
		}

		summary.Attributes = append(summary.Attributes, attributeSummary{
			Name:  attr.Name,
			Value: value,
		})
	}

	for _, child := range obj.Children {
		summary.Children = append(summary.Children, summarizeObject(child))
	}

	return summary
}
