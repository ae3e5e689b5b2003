package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
)

var errUnknownCommand = errors.New("unknown command; type a column 0-6, undo, new or quit")

// LineReader is satisfied by *readline.Instance.
type LineReader interface {
	Readline() (string, error)
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// NewReadline opens the interactive prompt used by cmd/play.
func NewReadline() (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          "\033[31mconnect4>\033[0m ",
		HistoryFile:     "/tmp/connect4.readline.tmp",
		EOFPrompt:       "quit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
}

type commandKind int

const (
	cmdColumn commandKind = iota
	cmdUndo
	cmdNew
	cmdQuit
)

type command struct {
	kind   commandKind
	column int
}

func parseCommand(line string) (command, error) {
	line = strings.ToLower(strings.TrimSpace(line))
	switch line {
	case "undo", "u":
		return command{kind: cmdUndo}, nil
	case "new", "n":
		return command{kind: cmdNew}, nil
	case "quit", "exit", "q":
		return command{kind: cmdQuit}, nil
	}

	col, err := strconv.Atoi(line)
	if err != nil {
		return command{}, errUnknownCommand
	}
	return command{kind: cmdColumn, column: col}, nil
}

type ShellOption func(*Shell)

// WithEmoji draws discs as coloured emoji instead of letters.
func WithEmoji() ShellOption {
	return func(s *Shell) { s.render.Emoji = true }
}

// WithEngineDepth sets the search depth of engine players.
func WithEngineDepth(depth int) ShellOption {
	return func(s *Shell) { s.depth = depth }
}

// Shell runs one game at a time in the terminal. Engine and random players
// move on their own; human moves are read from lines.
type Shell struct {
	lines   LineReader
	out     io.Writer
	render  Renderer
	depth   int
	game    *domain.Game
	players map[domain.Token]bot.PlayerStrategy
	input   bot.ColumnChan
}

func NewShell(lines LineReader, out io.Writer, red, blue bot.PlayerKind, opts ...ShellOption) (*Shell, error) {
	s := &Shell{
		lines: lines,
		out:   out,
		depth: bot.SearchDepth,
		game:  domain.NewGame(),
		input: make(bot.ColumnChan, 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.players = make(map[domain.Token]bot.PlayerStrategy, 2)
	for token, kind := range map[domain.Token]bot.PlayerKind{domain.PlayerA: red, domain.PlayerB: blue} {
		player, err := s.newPlayer(kind, token)
		if err != nil {
			return nil, err
		}
		s.players[token] = player
	}
	return s, nil
}

func (s *Shell) newPlayer(kind bot.PlayerKind, token domain.Token) (bot.PlayerStrategy, error) {
	if kind == bot.KindEngine {
		return bot.NewEnginePlayer(token, bot.NewSearcher(s.game.Board, bot.WithDepth(s.depth))), nil
	}
	return bot.NewPlayer(kind, token, s.game.Board, s.input)
}

func (s *Shell) Game() *domain.Game { return s.game }

func (s *Shell) println(msg string) {
	io.WriteString(s.out, msg)
	io.WriteString(s.out, "\n")
}

func (s *Shell) showError(err error) {
	s.println("Error: " + err.Error())
}

func (s *Shell) show() {
	s.println(s.render.Board(s.game.Board))
	s.println(s.render.Status(s.game))
}

func (s *Shell) hasHuman() bool {
	return lo.SomeBy(lo.Values(s.players), func(p bot.PlayerStrategy) bool {
		return p.Kind() == bot.KindHuman
	})
}

func (s *Shell) humanToMove() bool {
	return s.players[s.game.Turn].Kind() == bot.KindHuman
}

// Run plays until quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	s.game.Start()
	s.show()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !s.game.IsFinished() && !s.humanToMove() {
			if err := s.playTurn(ctx); err != nil {
				return err
			}
			continue
		}

		line, err := s.lines.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, err := parseCommand(line)
		if err != nil {
			s.showError(err)
			continue
		}

		switch cmd.kind {
		case cmdQuit:
			log.Debug().Str("component", "terminal").Int("moves", s.game.Board.MoveCount()).Msg("quit")
			return nil
		case cmdNew:
			s.game.Start()
			s.show()
		case cmdUndo:
			if err := s.undo(); err != nil {
				s.showError(err)
				continue
			}
			s.show()
		case cmdColumn:
			if s.game.IsFinished() {
				s.showError(domain.ErrGameOver)
				continue
			}
			s.input <- cmd.column
			if err := s.playTurn(ctx); err != nil {
				s.showError(err)
			}
		}
	}
}

// playTurn asks the side to move for a move and plays it.
func (s *Shell) playTurn(ctx context.Context) error {
	player := s.players[s.game.Turn]
	move, err := player.NextMove(ctx, s.game.Board)
	if err != nil {
		return err
	}
	if _, err := s.game.Play(move.Column); err != nil {
		return err
	}

	if player.Kind() != bot.KindHuman {
		s.println(fmt.Sprintf("%s (%s) plays %d", player.Token(), player.Kind(), move.Column))
	}
	s.show()
	return nil
}

// undo takes back moves until a human is to move again.
func (s *Shell) undo() error {
	if err := s.game.Undo(); err != nil {
		return err
	}
	for s.hasHuman() && !s.humanToMove() && s.game.Board.MoveCount() > 0 {
		if err := s.game.Undo(); err != nil {
			return err
		}
	}
	return nil
}
