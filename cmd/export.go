/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/polyglot/internal/app"
)

const (
	exportOutputKey = "export.output"
	exportGzipKey   = "export.gzip"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the word collection as pairwise CSV",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		outputPath := viper.GetString(exportOutputKey)
		if outputPath == "" {
			outputPath = "-"
		}

		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			writer, closers, err := openOutput(cmd, outputPath, viper.GetBool(exportGzipKey))
			if err != nil {
				return err
			}
			if err := c.Words.ExportCSV(ctx, writer); err != nil {
				_ = closeAll(closers)
				return err
			}
			return closeAll(closers)
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "destination file path, or - for stdout")
	exportCmd.Flags().Bool("gzip", false, "compress the output with gzip")

	bindFlagToViper(exportOutputKey, exportCmd.Flags().Lookup("output"))
	bindFlagToViper(exportGzipKey, exportCmd.Flags().Lookup("gzip"))
}
