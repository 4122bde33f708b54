package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/jaminalder/tictactoe-history/internal/domain"
	"github.com/spf13/cobra"
)

func Replay() *cobra.Command {
	var (
		desc bool
		jump int
	)

	cmd := &cobra.Command{
		Use:   "replay cell...",
		Short: "Replay a list of moves and print the result",
		Long: heredoc.Doc(`
			Play the given cells (0-8, row-major) in order, X first, then print the
			board, the game status and the move list. Moves into an occupied cell
			or after a win are skipped, just as a click on the board would be.
		`),
		Example: heredoc.Doc(`
			# X wins on the diagonal
			$ tictactoe replay 0 1 4 3 8

			# show the position after the second move, newest moves first
			$ tictactoe replay --jump 2 --desc 0 1 4 3 8
		`),
		Args: cobra.ArbitraryArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cells := make([]int, len(args))
			for i, arg := range args {
				cell, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid cell %q: %w", arg, err)
				}
				cells[i] = cell
			}

			s := domain.New()
			actions := make([]domain.Action, 0, len(cells)+2)
			for _, c := range cells {
				actions = append(actions, domain.PlayAction{Cell: c})
			}
			if cmd.Flags().Changed("jump") {
				actions = append(actions, domain.JumpAction{Step: jump})
			}
			if desc {
				actions = append(actions, domain.SortAction{Order: domain.Descending})
			}

			out := cmd.OutOrStdout()
			for _, a := range actions {
				next, res, err := domain.Reduce(s, a)
				if err != nil {
					return err
				}
				if res != domain.Applied {
					if p, ok := a.(domain.PlayAction); ok {
						fmt.Fprintf(out, "skipped cell %d: %s\n", p.Cell, res)
					}
				}
				s = next
			}

			printView(out, s.View())
			return nil
		},
	}

	cmd.Flags().BoolVar(&desc, "desc", false, "List moves newest first")
	cmd.Flags().IntVar(&jump, "jump", 0, "Show the position at this step")

	return cmd
}

// printView draws the board with the winning line highlighted, then the
// status and the move list.
func printView(w io.Writer, v domain.View) {
	win := color.New(color.FgYellow, color.Bold)
	cur := color.New(color.Bold)

	for r := 0; r < 3; r++ {
		cells := make([]string, 3)
		for c := 0; c < 3; c++ {
			i := r*3 + c
			sym := v.Board[i].String()
			if sym == "" {
				sym = "."
			}
			if v.Outcome.Contains(i) {
				sym = win.Sprint(sym)
			}
			cells[c] = sym
		}
		fmt.Fprintf(w, " %s \n", strings.Join(cells, " | "))
		if r < 2 {
			fmt.Fprintln(w, "---+---+---")
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, v.StatusText())
	fmt.Fprintln(w)
	for _, m := range v.Moves {
		if m.Current {
			fmt.Fprintf(w, "> %s\n", cur.Sprint(m.Label()))
			continue
		}
		fmt.Fprintf(w, "  %s\n", m.Label())
	}
}
