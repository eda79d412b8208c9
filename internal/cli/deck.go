package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/peterkuimelis/deckbuilder/internal/card"
	"github.com/peterkuimelis/deckbuilder/internal/deck"
	"github.com/peterkuimelis/deckbuilder/internal/session"
	"github.com/peterkuimelis/deckbuilder/internal/ydk"
)

// DeckCmd returns the deck command group. Every subcommand works on the
// deck stored under the configured key.
func DeckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Edit the current deck",
		Long:  "Add and remove cards, undo and redo edits, and move decks in and out as YDK files",
	}
	cmd.AddCommand(deckShowCmd())
	cmd.AddCommand(deckEditCmd("add", "Add copies of a card", (*session.Session).Increment))
	cmd.AddCommand(deckEditCmd("remove", "Remove copies of a card", (*session.Session).Decrement))
	cmd.AddCommand(deckHistoryCmd("undo", "Undo the last edit", (*session.Session).Undo))
	cmd.AddCommand(deckHistoryCmd("redo", "Redo the last undone edit", (*session.Session).Redo))
	cmd.AddCommand(deckNewCmd())
	cmd.AddCommand(deckImportCmd())
	cmd.AddCommand(deckExportCmd())
	cmd.AddCommand(deckEncodeCmd())
	cmd.AddCommand(deckSaveCmd())
	cmd.AddCommand(deckLoadCmd())
	cmd.AddCommand(deckListCmd())
	return cmd
}

// withSession runs fn against the current deck and closes the store after.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, sess *session.Session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess, st, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(ctx, sess)
}

func deckShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the deck part by part",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, sess *session.Session) error {
				printDeck(cmd.OutOrStdout(), sess.View())
				return nil
			})
		},
	}
}

type editFunc func(*session.Session, context.Context, uint32, deck.PartType, int) (uint8, error)

func deckEditCmd(use, short string, op editFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " [password]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid password %q", args[0])
			}
			count, _ := cmd.Flags().GetInt("count")
			part := deck.Playing
			if side, _ := cmd.Flags().GetBool("side"); side {
				part = deck.Side
			}

			return withSession(cmd, func(ctx context.Context, sess *session.Session) error {
				applied, err := op(sess, ctx, uint32(password), part, count)
				if err != nil {
					return fmt.Errorf("failed to %s card: %w", use, err)
				}
				name := cardName(sess, uint32(password))
				w := cmd.OutOrStdout()
				if applied == 0 {
					fmt.Fprintf(w, "No change: %s (%s)\n", name, part)
					return nil
				}
				verb := "Added"
				if use == "remove" {
					verb = "Removed"
				}
				fmt.Fprintf(w, "✓ %s %s of %s (%s)\n", verb, copies(int(applied)), name, part)
				return nil
			})
		},
	}
	cmd.Flags().IntP("count", "n", 1, "number of copies")
	cmd.Flags().Bool("side", false, "edit the side deck instead of main/extra")
	return cmd
}

func deckHistoryCmd(use, short string, op func(*session.Session, context.Context) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, sess *session.Session) error {
				changed, err := op(sess, ctx)
				if err != nil {
					return err
				}
				if !changed {
					fmt.Fprintf(cmd.OutOrStdout(), "Nothing to %s\n", use)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", use)
				return nil
			})
		},
	}
}

func deckNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start an empty deck, discarding history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, sess *session.Session) error {
				if err := sess.Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Started a new deck")
				return nil
			})
		},
	}
}

func deckImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the deck with a YDK file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return &ydk.ReadError{Err: err}
			}
			return withSession(cmd, func(ctx context.Context, sess *session.Session) error {
				if err := sess.ImportYDK(ctx, string(data), args[0]); err != nil {
					return fmt.Errorf("failed to import %s: %w", args[0], err)
				}
				printDeck(cmd.OutOrStdout(), sess.View())
				return nil
			})
		},
	}
}

func deckExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the deck as YDK",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("output")
			return withSession(cmd, func(ctx context.Context, sess *session.Session) error {
				text, err := sess.ExportYDK()
				if err != nil {
					return fmt.Errorf("failed to export: %w", err)
				}
				if out == "" || out == "-" {
					_, err = io.WriteString(cmd.OutOrStdout(), text)
					return err
				}
				if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().StringP("output", "o", "", "file to write (default stdout)")
	return cmd
}

func deckEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode",
		Short: "Print the compact encoding of the deck and its history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, sess *session.Session) error {
				text, err := sess.Encoded()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
}

func deckSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save [name]",
		Short: "Keep a copy of the deck and its history under another name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, sess *session.Session) error {
				if err := sess.SaveAs(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved as %s\n", args[0])
				return nil
			})
		},
	}
}

func deckLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load [name]",
		Short: "Replace the deck with one saved under another name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, sess *session.Session) error {
				ok, err := sess.LoadFrom(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no saved deck named %q", args[0])
				}
				printDeck(cmd.OutOrStdout(), sess.View())
				return nil
			})
		},
	}
}

func deckListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved decks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, _ := loadConfig(cmd)
			return withSession(cmd, func(ctx context.Context, sess *session.Session) error {
				keys, err := sess.Saved(ctx)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(keys) == 0 {
					fmt.Fprintln(w, "No saved decks")
					return nil
				}
				for _, key := range keys {
					if current != nil && key == current.Store.Key {
						fmt.Fprintf(w, "%s %s\n", key, color.New(color.FgHiMagenta).Sprint("[current]"))
						continue
					}
					fmt.Fprintln(w, key)
				}
				return nil
			})
		},
	}
}

// --- Output ---

func cardName(sess *session.Session, password uint32) string {
	cat := sess.Catalog()
	if id, ok := cat.IDForPassword(card.Password(password)); ok {
		if c, ok := cat.Card(id); ok {
			return c.Name
		}
	}
	return strconv.FormatUint(uint64(password), 10)
}

func copies(n int) string {
	if n == 1 {
		return "1 copy"
	}
	return fmt.Sprintf("%d copies", n)
}

// printDeck lists each part with its total, flagging totals outside the
// part's bounds.
func printDeck(w io.Writer, view *session.DeckView) {
	for i, part := range view.Parts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		total := fmt.Sprintf("%d/%d-%d", part.Count, part.Min, part.Max)
		if part.Count < part.Min || part.Count > part.Max {
			total = color.New(color.FgRed).Sprint(total)
		} else {
			total = color.New(color.FgGreen).Sprint(total)
		}
		fmt.Fprintf(w, "%s %s\n", color.New(color.Bold).Sprint(part.Name), total)
		for _, c := range part.Cards {
			if c.Password == 0 && c.Type == "" {
				fmt.Fprintf(w, "  %dx %s\n", c.Count, color.New(color.FgHiBlack).Sprint(c.Name))
				continue
			}
			fmt.Fprintf(w, "  %dx %-10d %s\n", c.Count, c.Password, c.Name)
		}
	}

	var history string
	switch {
	case view.CanUndo && view.CanRedo:
		history = "undo and redo available"
	case view.CanUndo:
		history = "undo available"
	case view.CanRedo:
		history = "redo available"
	default:
		history = "no history"
	}
	fmt.Fprintf(w, "\n%s (%d edits, %d undone)\n", history, view.History, view.Offset)
}
