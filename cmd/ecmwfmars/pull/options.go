// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package pull

import (
	"time"
)

var opts = &options{}

type options struct {
	Output  string
	Timeout time.Duration
}

func init() {
	flags := Command.Flags()
	flags.StringVar(&opts.Output, "output", ".",
		"Directory the product is staged into.")
	flags.DurationVar(&opts.Timeout, "timeout", 0,
		"Overall deadline for the retrieval. Zero waits indefinitely.")
}
