// Package main provides the CLI entrypoint for mapsynth.
//
// mapsynth reads a YAML list of type pairs, resolves how every member, enum
// value and container element maps across each pair, and writes the
// conversion routines as Go source along with a registry Register function.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"mapsynth/internal/cli"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(out, logOut io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, out)
	if err != nil {
		return err
	}

	if shouldExit {
		return nil
	}

	return cli.Run(cfg, out, logOut)
}
