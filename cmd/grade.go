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

	"github.com/eslsoft/polyglot/internal/app"
	"github.com/eslsoft/polyglot/internal/entity"
	"github.com/eslsoft/polyglot/internal/learning"
)

var gradeCmd = &cobra.Command{
	Use:   "grade <pair-id>",
	Short: "Record the result of reviewing one pair",
	Long: `Grade records a review of the given pair id (rowID_src_tgt). With
--wrong the error counter advances instead of the review counter; --answer
additionally checks the typed answer for a near-miss spelling.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wrong, _ := cmd.Flags().GetBool("wrong")
		answer, _ := cmd.Flags().GetString("answer")
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			key := entity.ParsePairID(args[0])
			item, err := c.Words.ApplyReview(key, !wrong, answer)
			if err != nil {
				return err
			}
			cmd.Printf("%s: times=%d errors=%d spell_errors=%d progress=%d%%\n",
				item.Key, item.Times, item.Errors, item.SpellErrors, learning.ProgressPercent(item))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(gradeCmd)

	gradeCmd.Flags().Bool("wrong", false, "the answer was wrong")
	gradeCmd.Flags().String("answer", "", "the typed answer, for spell checking")
}
