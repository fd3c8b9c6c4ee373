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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eslsoft/polyglot/internal/app"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage the study queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			for _, item := range c.Queue.Items() {
				cmd.Printf("%s\t%s -> %s\n", item.ID, item.Item.TextSrc, item.Item.TextTgt)
			}
			return nil
		})
	},
}

var queueAddCmd = &cobra.Command{
	Use:   "add <id>...",
	Short: "Add word or pair ids to the queue",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			added := c.Queue.Add(args)
			cmd.Printf("Added %d of %d\n", added, len(args))
			return nil
		})
	},
}

var queueRemoveCmd = &cobra.Command{
	Use:   "remove <id>...",
	Short: "Remove ids from the queue",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			removed := c.Queue.RemoveBatch(args)
			cmd.Printf("Removed %d of %d\n", removed, len(args))
			return nil
		})
	},
}

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			c.Queue.Clear()
			return nil
		})
	},
}

var queueShuffleCmd = &cobra.Command{
	Use:   "shuffle",
	Short: "Randomize the queue order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			c.Queue.Shuffle()
			return nil
		})
	},
}

var queueNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the item at the head of the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			random, _ := cmd.Flags().GetBool("random")
			pick := c.Queue.Next
			if random {
				pick = c.Queue.Random
			}
			item, ok := pick()
			if !ok {
				cmd.Println("Queue is empty")
				return nil
			}
			cmd.Printf("%s\t%s -> %s\n", item.ID, item.Item.TextSrc, item.Item.TextTgt)
			return nil
		})
	},
}

var queueMoveCmd = &cobra.Command{
	Use:   "move <id> <front|back>",
	Short: "Move an id to the front or back of the queue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			var moved bool
			switch args[1] {
			case "front":
				moved = c.Queue.MoveToFront(args[0])
			case "back":
				moved = c.Queue.MoveToBack(args[0])
			default:
				return fmt.Errorf("position must be front or back, got %q", args[1])
			}
			if !moved {
				return fmt.Errorf("id %q is not queued", args[0])
			}
			return nil
		})
	},
}

var queueReorderCmd = &cobra.Command{
	Use:   "reorder <from> <to>",
	Short: "Move the entry at position from to position to",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("from must be a number: %w", err)
		}
		to, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("to must be a number: %w", err)
		}
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			return c.Queue.Reorder(from, to)
		})
	},
}

func init() {
	rootCmd.AddCommand(queueCmd)
	queueCmd.AddCommand(queueAddCmd, queueRemoveCmd, queueClearCmd, queueShuffleCmd, queueNextCmd, queueMoveCmd, queueReorderCmd)

	queueNextCmd.Flags().Bool("random", false, "pick a random queued item instead of the head")
}
