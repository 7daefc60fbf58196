// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package logging configures log/slog for the server.

	logger, err := logging.Setup(os.Stdout, cfg.LogFormat, cfg.LogLevel)

Formats:

  - auto: text on a terminal (detected with go-isatty), JSON otherwise
  - text: slog.TextHandler
  - json: slog.JSONHandler

Setup also installs the logger as slog.Default, so packages that log through
the slog package functions share the configuration.
*/
package logging
