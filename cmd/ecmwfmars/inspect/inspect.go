// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	ecmwfmars "github.com/stcorp/muninn-ecmwfmars"
	"github.com/stcorp/muninn-ecmwfmars/types"
)

var Command = &cobra.Command{
	Use:   "inspect <file> [<file>...]",
	Short: "Print the ecmwfmars properties extracted from GRIB files",
	Long: `This command decodes the metadata sections of one or more GRIB files and
prints the extracted ecmwfmars namespace properties.

Usage examples:

1. Inspect a single product:

	ecmwfmars inspect product.grib

2. Inspect many products, as JSON:

	ecmwfmars inspect --json *.grib

`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("at least one file path is required")
		}

		return runCommand(cmd, args)
	},
}

func runCommand(cmd *cobra.Command, paths []string) error {
	results := make([]types.PropertySet, len(paths))

	group, _ := errgroup.WithContext(cmd.Context())
	group.SetLimit(opts.Concurrency)

	for i, path := range paths {
		group.Go(func() error {
			props, err := ecmwfmars.ExtractGribMetadata(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = props

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	for i, props := range results {
		if err := printProperties(cmd, paths[i], props); err != nil {
			return err
		}
	}

	return nil
}

func printProperties(cmd *cobra.Command, path string, props types.PropertySet) error {
	if opts.JSON {
		out, err := json.MarshalIndent(map[string]any{
			"file":       path,
			"properties": props,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode properties: %w", err)
		}

		cmd.Println(string(out))

		return nil
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}

	sort.Strings(names)

	cmd.Printf("%s:\n", path)

	for _, name := range names {
		cmd.Printf("  %s = %v\n", name, props[name])
	}

	return nil
}
