package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-engine/internal/config"
	"github.com/iamasit07/connect4-engine/internal/logx"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
	"github.com/iamasit07/connect4-engine/internal/transport/terminal"
)

func main() {
	red := flag.String("red", string(bot.KindHuman), "red player: human, engine or random")
	blue := flag.String("blue", string(bot.KindEngine), "blue player: human, engine or random")
	depth := flag.Int("depth", bot.SearchDepth, "engine search depth")
	emoji := flag.Bool("emoji", false, "draw discs as emoji")
	logLevel := flag.String("log-level", config.GetEnv("LOG_LEVEL", "warn"), "log level")
	flag.Parse()

	logx.Setup(*logLevel, true)

	redKind, err := bot.ParseKind(*red)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	blueKind, err := bot.ParseKind(*blue)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	rl, err := terminal.NewReadline()
	if err != nil {
		log.Fatal().Err(err).Msg("could not open terminal")
	}
	defer rl.Close()

	opts := []terminal.ShellOption{terminal.WithEngineDepth(*depth)}
	if *emoji {
		opts = append(opts, terminal.WithEmoji())
	}

	shell, err := terminal.NewShell(rl, rl.Stdout(), redKind, blueKind, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("could not set up game")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := shell.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("game stopped")
	}
}
