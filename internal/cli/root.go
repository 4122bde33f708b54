package cli

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "tictactoe",
		Short: "Tic-tac-toe with a time-travelling move history",
		Long: heredoc.Doc(`
			Play tic-tac-toe in the browser, or replay a list of moves in the
			terminal. Every move is kept in a history that can be revisited; playing
			from an earlier position discards the moves that followed it.
		`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// global flags
	root.PersistentFlags().BoolP("debug", "d", false, "Show debug logs")

	root.AddCommand(Serve())
	root.AddCommand(Replay())

	return root
}

// debugEnabled reports whether --debug was passed anywhere up the tree.
func debugEnabled(cmd *cobra.Command) bool {
	f := cmd.Flag("debug")
	return f != nil && f.Changed
}
