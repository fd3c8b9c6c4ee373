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
	"strings"

	"github.com/spf13/cobra"

	"github.com/eslsoft/polyglot/internal/app"
	"github.com/eslsoft/polyglot/pkg/langtext"
)

var speakCmd = &cobra.Command{
	Use:   "speak <text>...",
	Short: "Pronounce text with the configured voice",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _ := cmd.Flags().GetString("lang")
		voice, _ := cmd.Flags().GetString("voice")
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			return c.Settings.Speak(ctx, strings.Join(args, " "), lang, voice)
		})
	},
}

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the available voices",
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _ := cmd.Flags().GetString("lang")
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			voices, err := c.Settings.Voices(ctx, lang)
			if err != nil {
				return err
			}
			for _, v := range voices {
				cmd.Printf("%s\t%s\t%s\n", v.ID, v.Lang, langtext.DisplayName(v.Lang))
			}
			return nil
		})
	},
}

var voicesSetCmd = &cobra.Command{
	Use:   "set <lang> <voice-id>",
	Short: "Store the preferred voice for a language",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			c.Settings.SetVoice(args[0], args[1])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(speakCmd, voicesCmd)
	voicesCmd.AddCommand(voicesSetCmd)

	speakCmd.Flags().String("lang", "en", "language tag of the text")
	speakCmd.Flags().String("voice", "", "voice id, overriding the stored preference")
	voicesCmd.Flags().String("lang", "", "restrict to one language")
}
