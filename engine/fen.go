package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

var errBadFEN = errors.New("bad FEN")

// LoadFEN validates the board and side-to-move fields of a FEN and parses
// it. Missing or malformed castling, en passant and move counter fields are
// replaced by "- - 0 1"; a malformed board or side to move is an error.
func LoadFEN(fen string) (*dragontoothmg.Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q: need board and side to move", errBadFEN, fen)
	}
	if err := checkPlacement(parts[0]); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", errBadFEN, fen, err)
	}
	if parts[1] != "w" && parts[1] != "b" {
		return nil, fmt.Errorf("%w: %q: side to move %q", errBadFEN, fen, parts[1])
	}

	norm := [6]string{parts[0], parts[1], "-", "-", "0", "1"}
	if len(parts) > 2 && isCastling(parts[2]) {
		norm[2] = parts[2]
	}
	if len(parts) > 3 && isEnPassant(parts[3]) {
		norm[3] = parts[3]
	}
	if len(parts) > 5 && isCounter(parts[4]) && isCounter(parts[5]) {
		norm[4], norm[5] = parts[4], parts[5]
	}
	board := dragontoothmg.ParseFen(strings.Join(norm[:], " "))
	return &board, nil
}

func checkPlacement(board string) error {
	ranks := strings.Split(board, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%d ranks", len(ranks))
	}
	var wk, bk int
	for _, r := range ranks {
		file := 0
		for i := 0; i < len(r); i++ {
			ch := r[i]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if strings.IndexByte("pnbrqkPNBRQK", ch) < 0 {
				return fmt.Errorf("bad piece char %q", ch)
			}
			switch ch {
			case 'K':
				wk++
			case 'k':
				bk++
			}
			file++
		}
		if file != 8 {
			return fmt.Errorf("rank %q has %d files", r, file)
		}
	}
	if wk != 1 || bk != 1 {
		return fmt.Errorf("want one king per side, got %d white and %d black", wk, bk)
	}
	return nil
}

func isCastling(s string) bool {
	if s == "-" {
		return true
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte("KQkq", s[i]) < 0 {
			return false
		}
	}
	return len(s) > 0 && len(s) <= 4
}

func isEnPassant(s string) bool {
	if s == "-" {
		return true
	}
	return len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && (s[1] == '3' || s[1] == '6')
}

func isCounter(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
