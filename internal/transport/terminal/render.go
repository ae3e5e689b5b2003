package terminal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/iamasit07/connect4-engine/internal/domain"
)

// Renderer draws boards as text, one line per row with the top row first.
type Renderer struct {
	Emoji bool
}

func (r Renderer) Glyph(t domain.Token) string {
	if r.Emoji {
		switch t {
		case domain.PlayerA:
			return "🔴"
		case domain.PlayerB:
			return "🔵"
		}
		return "⚪"
	}

	switch t {
	case domain.PlayerA:
		return "R"
	case domain.PlayerB:
		return "B"
	}
	return "."
}

// Board renders the grid followed by a line of column numbers.
func (r Renderer) Board(b *domain.Board) string {
	var sb strings.Builder
	for _, row := range b.Grid() {
		glyphs := lo.Map(row[:], func(t domain.Token, _ int) string { return r.Glyph(t) })
		sb.WriteString(strings.Join(glyphs, " "))
		sb.WriteByte('\n')
	}

	labels := lo.Map(lo.Range(domain.Width), func(col, _ int) string {
		if r.Emoji {
			return fmt.Sprintf("%-2d", col)
		}
		return strconv.Itoa(col)
	})
	sb.WriteString(strings.TrimRight(strings.Join(labels, " "), " "))
	return sb.String()
}

// Status is the outcome of a finished game, otherwise whose move it is.
func (r Renderer) Status(g *domain.Game) string {
	if g.IsFinished() {
		return g.Outcome()
	}
	if g.Status == domain.StatusPaused {
		return "Game not started."
	}
	return fmt.Sprintf("%s %s to move", r.Glyph(g.Turn), g.Turn)
}
