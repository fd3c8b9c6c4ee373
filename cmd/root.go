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
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "polyglot",
	Short: "Local-first vocabulary trainer",
	Long: `Polyglot keeps a multi-language vocabulary collection, derives study
pairs from it, ranks them by learning priority and drives a study queue
with optional speech output.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("storage-driver", "", "storage driver (sqlite3, postgres, memory)")
	rootCmd.PersistentFlags().String("storage-dsn", "", "storage DSN or file path")
	rootCmd.PersistentFlags().String("log-level", "", "log level")

	bindFlagToViper("storage.driver", rootCmd.PersistentFlags().Lookup("storage-driver"))
	bindFlagToViper("storage.dsn", rootCmd.PersistentFlags().Lookup("storage-dsn"))
	bindFlagToViper("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}
