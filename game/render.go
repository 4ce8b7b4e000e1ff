package game

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Render draws the board to w, player 1 as X and player 2 as O. The last
// move is highlighted when the terminal supports colors.
func (b *Board) Render(w io.Writer) error {
	out := termenv.NewOutput(w)
	var sb strings.Builder

	fmt.Fprintf(&sb, "Player %d with X, Player %d with O\n\n", Player1, Player2)
	sb.WriteString("   ")
	for x := 0; x < b.Width; x++ {
		fmt.Fprintf(&sb, "%3d", x)
	}
	sb.WriteString("\n")

	for h := b.Height - 1; h >= 0; h-- {
		fmt.Fprintf(&sb, "%3d", h)
		for x := 0; x < b.Width; x++ {
			move := b.LocationToMove(h, x)
			cell := "  _"
			switch b.cells[move] {
			case Player1:
				cell = "  X"
			case Player2:
				cell = "  O"
			}
			styled := out.String(cell)
			if b.cells[move] == Player1 {
				styled = styled.Foreground(out.Color("1"))
			} else if b.cells[move] == Player2 {
				styled = styled.Foreground(out.Color("4"))
			}
			if move == b.LastMove {
				styled = styled.Bold()
			}
			sb.WriteString(styled.String())
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
