package main

import (
	"context"
	"os"

	"github.com/jaminalder/tictactoe-history/internal/cli"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).With().Timestamp().Logger()

	root := cli.Root()
	root.SetArgs(os.Args[1:])
	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("tictactoe")
	}
}
