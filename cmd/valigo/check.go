package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	valigo "github.com/reoring/valigo"
	"github.com/reoring/valigo/config"
	"github.com/reoring/valigo/dsl"
	"github.com/reoring/valigo/i18n"
	"github.com/reoring/valigo/source"
)

// errInvalid is returned after the issues of an invalid file have been printed.
var errInvalid = errors.New("invalid file")

// catalogSchema describes a message catalog document: language tag -> issue type -> template.
var catalogSchema = dsl.Record(
	dsl.Pipe(dsl.String(), dsl.Regex(`^[A-Za-z]{2,3}(-[A-Za-z0-9]+)*$`)),
	dsl.Record(
		dsl.Pipe(dsl.String(), dsl.Regex(`^[a-z][a-z0-9_]*(\.[a-z]+)?$`)),
		dsl.Pipe(dsl.String(), dsl.NonEmpty()),
	),
)

func newCheckConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config FILE",
		Short: "Validate a YAML or TOML config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := config.Decode(args[0])
			if err != nil {
				return err
			}
			if raw == nil {
				raw = map[string]any{}
			}
			return report(cmd, args[0], valigo.SafeParse(config.Schema(), raw))
		},
	}
}

func newCheckCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-catalog FILE",
		Short: "Validate a YAML message catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			raw, err := source.YAML(data)
			if err != nil {
				return err
			}
			if err := report(cmd, args[0], valigo.SafeParse(catalogSchema, raw)); err != nil {
				return err
			}
			cat, err := i18n.LoadYAML(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "languages: %v\n", cat.Languages())
			return nil
		},
	}
}

func report(cmd *cobra.Command, name string, res valigo.Result) error {
	out := cmd.OutOrStdout()
	asJSON, _ := cmd.Flags().GetBool("json")
	if res.Success {
		if !asJSON {
			fmt.Fprintf(out, "%s: ok\n", name)
		}
		return nil
	}
	flat := valigo.Flatten(res.Issues)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(flat); err != nil {
			return err
		}
		return errInvalid
	}
	printFlat(out, name, flat)
	return errInvalid
}

func printFlat(w io.Writer, name string, flat valigo.FlatErrors) {
	for _, msg := range flat.Root {
		fmt.Fprintf(w, "%s: %s\n", name, msg)
	}
	keys := make([]string, 0, len(flat.Nested))
	for k := range flat.Nested {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, msg := range flat.Nested[k] {
			fmt.Fprintf(w, "%s: %s: %s\n", name, k, msg)
		}
	}
	for _, msg := range flat.Other {
		fmt.Fprintf(w, "%s: %s\n", name, msg)
	}
}
