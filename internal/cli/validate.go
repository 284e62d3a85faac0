package cli

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geomkit/pkg/dataset"
	"github.com/matzehuels/geomkit/pkg/errors"
)

const (
	kindRecords   = "records"
	kindHierarchy = "hierarchy"
)

// validateCommand checks a dataset file without computing anything.
func (c *CLI) validateCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "validate [data]",
		Short: "Check a dataset against its schema",
		Long: `Check a dataset against its schema.

JSON files are checked against the records schema (an array of flat objects)
or the hierarchy schema (a tree of named nodes). The kind is inferred from the
first token unless --kind is given. CSV and YAML files are checked by parsing
them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], kind)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "dataset kind: records, hierarchy (inferred when empty)")

	return cmd
}

func runValidate(path, kind string) error {
	if kind != "" && kind != kindRecords && kind != kindHierarchy {
		return errors.New(errors.ErrCodeInvalidInput, "invalid kind: %q (must be records or hierarchy)", kind)
	}

	format := dataset.FormatFromPath(path)
	if format != "json" {
		ds, err := dataset.ReadFile(path)
		if err != nil {
			return err
		}
		if kind == kindHierarchy && !ds.IsHierarchy() {
			return errors.New(errors.ErrCodeInvalidData, "%s holds records, not a hierarchy", path)
		}
		if kind == kindRecords && ds.IsHierarchy() {
			return errors.New(errors.ErrCodeInvalidData, "%s holds a hierarchy, not records", path)
		}
		printSuccess("%s is valid", path)
		printDetail("%d %s", datasetSize(ds), describeKind(ds.IsHierarchy()))
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
	}
	if kind == "" {
		kind = sniffKind(data)
	}
	switch kind {
	case kindHierarchy:
		err = dataset.ValidateHierarchy(data)
	default:
		err = dataset.ValidateRecords(data)
	}
	if err != nil {
		printError("%s is not a valid %s dataset", path, kind)
		return err
	}
	printSuccess("%s is a valid %s dataset", path, kind)
	return nil
}

// sniffKind infers the dataset kind from the first JSON token.
func sniffKind(data []byte) string {
	if t := bytes.TrimSpace(data); len(t) > 0 && t[0] == '{' {
		return kindHierarchy
	}
	return kindRecords
}

func describeKind(hierarchy bool) string {
	if hierarchy {
		return "hierarchy nodes"
	}
	return kindRecords
}
