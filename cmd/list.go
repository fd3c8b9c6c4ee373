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
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/polyglot/internal/app"
	"github.com/eslsoft/polyglot/internal/entity"
	"github.com/eslsoft/polyglot/internal/learning"
)

const (
	listFilterKey   = "list.filter"
	listPairKey     = "list.pair"
	listPriorityKey = "list.priority"
	listDueKey      = "list.due"
	listPairsKey    = "list.pairs"
	listStatsKey    = "list.stats"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List study pairs derived from the collection",
	Long: `List prints the pairwise view of the collection. --filter takes a CEL
expression over lang_src, lang_tgt, errors, last_review and keyword, e.g.:

  polyglot list --filter "lang_src in ['en'] && errors >= 2"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			if viper.GetBool(listPairsKey) {
				for _, pair := range c.Words.AvailablePairs() {
					cmd.Println(pair.String())
				}
				return nil
			}
			if viper.GetBool(listStatsKey) {
				stats := c.Words.Stats()
				cmd.Printf("words: %d\nlearned: %d\nerror rate: %.2f\n", stats.TotalWords, stats.LearnedWords, stats.ErrorRate)
				for _, lang := range sortedKeys(stats.Languages) {
					cmd.Printf("  %s: %d\n", lang, stats.Languages[lang])
				}
				return nil
			}

			items, err := selectItems(c)
			if err != nil {
				return err
			}
			if viper.GetBool(listPriorityKey) {
				items = learning.SortByPriority(items)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPAIR\tSRC\tTGT\tTIMES\tERRORS\tLAST REVIEW")
			for _, it := range items {
				lastReview := "-"
				if it.LastReview != nil {
					lastReview = it.LastReview.Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s-%s\t%s\t%s\t%d\t%d\t%s\n",
					it.Key.RowID, it.Key.Src, it.Key.Tgt, it.TextSrc, it.TextTgt,
					it.Times, it.Errors, lastReview)
			}
			return w.Flush()
		})
	},
}

func selectItems(c *app.Container) ([]entity.WordItem, error) {
	if pair := viper.GetString(listPairKey); pair != "" {
		src, tgt, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("--pair must look like src:tgt, e.g. en:fr")
		}
		return c.Words.PairItems(src, tgt), nil
	}
	if days := viper.GetInt(listDueKey); days > 0 {
		return c.Words.NeedsReview(days), nil
	}
	return c.Words.Filtered(viper.GetString(listFilterKey))
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("filter", "", "CEL filter expression")
	listCmd.Flags().String("pair", "", "restrict to one direction, src:tgt")
	listCmd.Flags().Bool("priority", false, "sort by learning priority")
	listCmd.Flags().Int("due", 0, "only items due for review (unlearned, with errors, or not reviewed for N days)")
	listCmd.Flags().Bool("pairs", false, "print the available language pairs instead")
	listCmd.Flags().Bool("stats", false, "print collection statistics instead")

	bindFlagToViper(listFilterKey, listCmd.Flags().Lookup("filter"))
	bindFlagToViper(listPairKey, listCmd.Flags().Lookup("pair"))
	bindFlagToViper(listPriorityKey, listCmd.Flags().Lookup("priority"))
	bindFlagToViper(listDueKey, listCmd.Flags().Lookup("due"))
	bindFlagToViper(listPairsKey, listCmd.Flags().Lookup("pairs"))
	bindFlagToViper(listStatsKey, listCmd.Flags().Lookup("stats"))
}
