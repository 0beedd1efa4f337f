// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package inspect

var opts = &options{}

type options struct {
	JSON        bool
	Concurrency int
}

func init() {
	flags := Command.Flags()
	flags.BoolVar(&opts.JSON, "json", false,
		"Print properties as JSON instead of key/value lines.")
	flags.IntVar(&opts.Concurrency, "concurrency", 4,
		"Number of files to decode in parallel.")
}
