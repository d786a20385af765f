package engine

import "math/bits"

const (
	fileA uint64 = 0x0101010101010101
	fileH uint64 = 0x8080808080808080

	centralSquares uint64 = 0x0000183c3c180000
)

var (
	KnightMasks [64]uint64
	KingMoves   [64]uint64

	onlyFile      [8]uint64
	adjacentFiles [8]uint64

	// passedMask[side][sq]: squares ahead of sq on its own and adjacent files.
	passedMask [2][64]uint64
	// outpostMask[side][sq]: squares ahead of sq on adjacent files only.
	outpostMask [2][64]uint64
	// supportMask[side][sq]: adjacent-file squares level with or behind sq.
	supportMask [2][64]uint64
)

func init() {
	for f := 0; f < 8; f++ {
		onlyFile[f] = fileA << f
	}
	for f := 0; f < 8; f++ {
		if f > 0 {
			adjacentFiles[f] |= onlyFile[f-1]
		}
		if f < 7 {
			adjacentFiles[f] |= onlyFile[f+1]
		}
	}

	for sq := 0; sq < 64; sq++ {
		KnightMasks[sq] = stepMask(sq, [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}})
		KingMoves[sq] = stepMask(sq, [][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}})

		file, rank := sq&7, sq>>3
		var aheadW, aheadB, behindW, behindB uint64
		for r := 0; r < 8; r++ {
			row := uint64(0xff) << (8 * r)
			if r > rank {
				aheadW |= row
			} else {
				behindW |= row
			}
			if r < rank {
				aheadB |= row
			} else {
				behindB |= row
			}
		}
		span := onlyFile[file] | adjacentFiles[file]
		passedMask[White][sq] = span & aheadW
		passedMask[Black][sq] = span & aheadB
		outpostMask[White][sq] = adjacentFiles[file] & aheadW
		outpostMask[Black][sq] = adjacentFiles[file] & aheadB
		supportMask[White][sq] = adjacentFiles[file] & behindW
		supportMask[Black][sq] = adjacentFiles[file] & behindB
	}
}

func stepMask(sq int, steps [][2]int) uint64 {
	var m uint64
	file, rank := sq&7, sq>>3
	for _, s := range steps {
		f, r := file+s[0], rank+s[1]
		if f < 0 || f > 7 || r < 0 || r > 7 {
			continue
		}
		m |= 1 << (r*8 + f)
	}
	return m
}

// pawnAttacks returns every square attacked by the given pawns.
func pawnAttacks(pawns uint64, side int) uint64 {
	if side == White {
		return ((pawns &^ fileA) << 7) | ((pawns &^ fileH) << 9)
	}
	return ((pawns &^ fileH) >> 7) | ((pawns &^ fileA) >> 9)
}

// pawnPush moves every bit one rank forward for side.
func pawnPush(bb uint64, side int) uint64 {
	if side == White {
		return bb << 8
	}
	return bb >> 8
}

// relativeSquare mirrors sq vertically for black so that tables are always
// indexed from white's point of view.
func relativeSquare(sq, side int) int {
	if side == White {
		return sq
	}
	return sq ^ 56
}

func relativeRank(sq, side int) int {
	return relativeSquare(sq, side) >> 3
}

func popcount(bb uint64) int { return bits.OnesCount64(bb) }
