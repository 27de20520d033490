// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/LeeDigitalWorks/zapctl/cmd"

	"github.com/getsentry/sentry-go"
)

func main() {
	// An empty SENTRY_DSN leaves the client disabled
	err := sentry.Init(sentry.ClientOptions{
		Dsn:        os.Getenv("SENTRY_DSN"),
		SampleRate: 1.0,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sentry.Init: %v\n", err)
	}

	code := 0
	if err := cmd.Execute(); err != nil {
		code = 1
		if !cmd.IsInputError(err) {
			sentry.CaptureException(err)
		}
	}
	sentry.Flush(2 * time.Second)
	os.Exit(code)
}
