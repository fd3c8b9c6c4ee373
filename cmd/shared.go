package cmd

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eslsoft/polyglot/internal/app"
)

func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// withContainer builds the application, restores the persisted stores, runs
// fn and flushes pending writes before tearing down.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *app.Container) error) (err error) {
	ctx := cmd.Context()

	c, cleanup, err := app.Initialize()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer cleanup()

	if err := c.Words.Restore(ctx); err != nil {
		return err
	}
	if err := c.Queue.Restore(ctx); err != nil {
		return err
	}
	if err := c.Settings.Restore(ctx); err != nil {
		return err
	}

	defer func() {
		c.Writer.Flush()
		if werr := c.Writer.Err(); werr != nil && err == nil {
			err = werr
		}
	}()

	return fn(ctx, c)
}

// openInput resolves a --input path. "-" means stdin; .gz files and the
// gzipEnabled flag wrap the reader in a gzip decoder. The returned closers
// must run in order once reading finishes.
func openInput(cmd *cobra.Command, path string, gzipEnabled bool) (io.Reader, []func() error, error) {
	if !gzipEnabled && path != "-" && strings.HasSuffix(strings.ToLower(path), ".gz") {
		gzipEnabled = true
	}

	var (
		reader  io.Reader = cmd.InOrStdin()
		closers []func() error
	)
	if path != "-" {
		file, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, nil, fmt.Errorf("open input file: %w", err)
		}
		reader = file
		closers = append(closers, file.Close)
	}
	if gzipEnabled {
		gzr, err := gzip.NewReader(reader)
		if err != nil {
			closeAll(closers)
			return nil, nil, fmt.Errorf("create gzip reader: %w", err)
		}
		reader = gzr
		closers = append([]func() error{gzr.Close}, closers...)
	}
	return reader, closers, nil
}

// openOutput resolves a --output path the same way, for writing.
func openOutput(cmd *cobra.Command, path string, gzipEnabled bool) (io.Writer, []func() error, error) {
	if !gzipEnabled && path != "-" && strings.HasSuffix(strings.ToLower(path), ".gz") {
		gzipEnabled = true
	}

	var (
		writer  io.Writer = cmd.OutOrStdout()
		closers []func() error
	)
	if path != "-" {
		file, err := os.Create(filepath.Clean(path))
		if err != nil {
			return nil, nil, fmt.Errorf("create output file: %w", err)
		}
		writer = file
		closers = append(closers, file.Close)
	}
	if gzipEnabled {
		gzw := gzip.NewWriter(writer)
		writer = gzw
		closers = append([]func() error{gzw.Close}, closers...)
	}
	return writer, closers, nil
}

func closeAll(closers []func() error) error {
	var first error
	for _, closer := range closers {
		if err := closer(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
