// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stcorp/muninn-ecmwfmars/cmd/ecmwfmars/inspect"
	"github.com/stcorp/muninn-ecmwfmars/cmd/ecmwfmars/pull"
	"github.com/stcorp/muninn-ecmwfmars/cmd/ecmwfmars/url"
)

var rootCmd = &cobra.Command{
	Use:   "ecmwfmars",
	Short: "Diagnostic tool for the ECMWF MARS archive extension",
	Long: `ecmwfmars inspects GRIB products, composes MARS remote locators and
retrieves products from the MARS service the way the archive extension does.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(inspect.Command)
	rootCmd.AddCommand(url.Command)
	rootCmd.AddCommand(pull.Command)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
