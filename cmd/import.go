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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/polyglot/internal/adapter/csvio"
	"github.com/eslsoft/polyglot/internal/app"
)

const (
	importInputKey = "import.input"
	importGzipKey  = "import.gzip"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a word collection from CSV",
	Long: `Import reads a CSV document with word_<lang> columns and replaces the
stored collection. The import is all-or-nothing: any invalid row aborts it
and reports every problem found.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		if viper.GetBool("import.example") {
			cmd.Print(csvio.ExampleWords())
			return nil
		}

		inputPath := viper.GetString(importInputKey)
		if inputPath == "" {
			return fmt.Errorf("specify an input file with --input, or - for stdin")
		}

		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			reader, closers, err := openInput(cmd, inputPath, viper.GetBool(importGzipKey))
			if err != nil {
				return err
			}
			defer func() { _ = closeAll(closers) }()

			report, err := c.Words.ImportCSV(ctx, reader)
			if err != nil {
				return err
			}
			if !report.OK {
				for _, msg := range report.Errors {
					cmd.PrintErrln(msg)
				}
				return fmt.Errorf("import aborted: %d problem(s) found", len(report.Errors))
			}
			c.Words.Flush()
			cmd.Printf("Imported %d words\n", report.Imported)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("input", "i", "", "CSV file path, or - for stdin")
	importCmd.Flags().Bool("gzip", false, "input is gzip compressed")
	importCmd.Flags().Bool("example", false, "print an example CSV document and exit")

	bindFlagToViper(importInputKey, importCmd.Flags().Lookup("input"))
	bindFlagToViper(importGzipKey, importCmd.Flags().Lookup("gzip"))
	bindFlagToViper("import.example", importCmd.Flags().Lookup("example"))
}
