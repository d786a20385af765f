package engine

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

// Phase weights; a full board sums to TotalPhase.
const (
	KnightPhase = 1
	BishopPhase = 1
	RookPhase   = 2
	QueenPhase  = 4
	TotalPhase  = 24
)

// MaterialValues holds the flat centipawn weights used to seed the material
// features, P..Q.
var MaterialValues = [5]float64{100, 320, 330, 500, 900}

// Phase returns the game phase of b in [0,1]: 1 with all minor and major
// pieces on the board, 0 with only kings and pawns.
func Phase(b *dragontoothmg.Board) float64 {
	p := KnightPhase*popcount(b.White.Knights|b.Black.Knights) +
		BishopPhase*popcount(b.White.Bishops|b.Black.Bishops) +
		RookPhase*popcount(b.White.Rooks|b.Black.Rooks) +
		QueenPhase*popcount(b.White.Queens|b.Black.Queens)
	if p > TotalPhase {
		p = TotalPhase
	}
	return float64(p) / TotalPhase
}

// sideInfo caches per-side bitboards shared by several terms.
type sideInfo struct {
	us, them   *dragontoothmg.Bitboards
	pawnAtt    uint64 // our pawn attacks
	theirAtt   uint64 // their pawn attacks
	kingSq     int
	theirKing  int
	theirZone  uint64
	minorAtt   uint64
	rookAtt    uint64
	kingAttack [4]int // N, B, R, Q hits on the enemy king zone
}

// Extract resets tr and fills it with the feature counts of b. The trace
// must use the layout returned by NewLayout.
func Extract(b *dragontoothmg.Board, tr *Trace) {
	l := tr.layout
	if !l.standard {
		panic("engine: Extract needs the standard layout")
	}
	tr.Reset()
	tr.Phase = Phase(b)

	occ := b.White.All | b.Black.All
	allPawns := b.White.Pawns | b.Black.Pawns
	for side := White; side <= Black; side++ {
		si := newSideInfo(b, side)
		material(l, tr, side, si.us)
		psqt(l, tr, side, si.us)
		mobility(l, tr, side, &si, occ)
		threats(l, tr, side, &si)
		pawnStructure(l, tr, side, &si)
		pieces(l, tr, side, &si, allPawns)
		kingSafety(l, tr, side, &si, allPawns)
	}

	if b.Wtomove {
		tr.Add(White, l.Tempo, 1)
	} else {
		tr.Add(Black, l.Tempo, 1)
	}
}

func newSideInfo(b *dragontoothmg.Board, side int) sideInfo {
	si := sideInfo{us: &b.White, them: &b.Black}
	if side == Black {
		si.us, si.them = &b.Black, &b.White
	}
	si.pawnAtt = pawnAttacks(si.us.Pawns, side)
	si.theirAtt = pawnAttacks(si.them.Pawns, side^1)
	si.kingSq = bits.TrailingZeros64(si.us.Kings)
	si.theirKing = bits.TrailingZeros64(si.them.Kings)
	si.theirZone = KingMoves[si.theirKing] | 1<<si.theirKing
	return si
}

func material(l *Layout, tr *Trace, side int, us *dragontoothmg.Bitboards) {
	for i, bb := range [5]uint64{us.Pawns, us.Knights, us.Bishops, us.Rooks, us.Queens} {
		if n := popcount(bb); n > 0 {
			tr.Add(side, l.Material+i, n)
		}
	}
}

func psqt(l *Layout, tr *Trace, side int, us *dragontoothmg.Bitboards) {
	for p, bb := range [6]uint64{us.Pawns, us.Knights, us.Bishops, us.Rooks, us.Queens, us.Kings} {
		for x := bb; x != 0; x &= x - 1 {
			sq := bits.TrailingZeros64(x)
			tr.Add(side, l.PSQT+p*64+relativeSquare(sq, side), 1)
		}
	}
}

func mobility(l *Layout, tr *Trace, side int, si *sideInfo, occ uint64) {
	area := ^si.us.All &^ si.theirAtt

	for x := si.us.Knights; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		att := KnightMasks[sq]
		si.minorAtt |= att
		si.kingAttack[0] += popcount(att & si.theirZone)
		tr.Add(side, l.KnightMobility+popcount(att&area), 1)
	}
	for x := si.us.Bishops; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		att := dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), occ)
		si.minorAtt |= att
		si.kingAttack[1] += popcount(att & si.theirZone)
		tr.Add(side, l.BishopMobility+popcount(att&area), 1)
	}
	for x := si.us.Rooks; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		att := dragontoothmg.CalculateRookMoveBitboard(uint8(sq), occ)
		si.rookAtt |= att
		si.kingAttack[2] += popcount(att & si.theirZone)
		tr.Add(side, l.RookMobility+popcount(att&area), 1)
	}
	for x := si.us.Queens; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		att := dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), occ) |
			dragontoothmg.CalculateRookMoveBitboard(uint8(sq), occ)
		si.kingAttack[3] += popcount(att & si.theirZone)
		tr.Add(side, l.QueenMobility+popcount(att&area), 1)
	}
}

func threats(l *Layout, tr *Trace, side int, si *sideInfo) {
	them := si.them
	counts := [threatCount]int{
		ThreatPawnMinor:  popcount(si.pawnAtt & (them.Knights | them.Bishops)),
		ThreatPawnRook:   popcount(si.pawnAtt & them.Rooks),
		ThreatPawnQueen:  popcount(si.pawnAtt & them.Queens),
		ThreatMinorRook:  popcount(si.minorAtt & them.Rooks),
		ThreatMinorQueen: popcount(si.minorAtt & them.Queens),
		ThreatRookQueen:  popcount(si.rookAtt & them.Queens),
	}
	for i, n := range counts {
		if n > 0 {
			tr.Add(side, l.Threats+i, n)
		}
	}
}

func pawnStructure(l *Layout, tr *Trace, side int, si *sideInfo) {
	ours, theirs := si.us.Pawns, si.them.Pawns
	var counts [pawnStructureCount]int

	for f := 0; f < 8; f++ {
		if n := popcount(ours & onlyFile[f]); n > 1 {
			counts[PawnDoubled] += n - 1
		}
	}
	for x := ours; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		file := sq & 7
		if ours&adjacentFiles[file] == 0 {
			counts[PawnIsolated]++
		} else if ours&supportMask[side][sq] == 0 && pawnPush(1<<sq, side)&si.theirAtt != 0 {
			counts[PawnBackward]++
		}
		if theirs&passedMask[side][sq] == 0 {
			tr.Add(side, l.PassedPawn+relativeRank(sq, side), 1)
		}
	}
	counts[PawnConnected] = popcount(ours & si.pawnAtt)
	counts[PawnPhalanx] = popcount(ours & (((ours &^ fileH) << 1) | ((ours &^ fileA) >> 1)))
	counts[PawnBlocked] = popcount(pawnPush(ours, side) & theirs)

	for i, n := range counts {
		if n > 0 {
			tr.Add(side, l.PawnStructure+i, n)
		}
	}
}

func pieces(l *Layout, tr *Trace, side int, si *sideInfo, allPawns uint64) {
	us := si.us
	var counts [pieceTermCount]int

	if popcount(us.Bishops) >= 2 {
		counts[BishopPair] = 1
	}
	counts[KnightOutpost] = outposts(us.Knights, side, si)
	counts[BishopOutpost] = outposts(us.Bishops, side, si)
	for x := us.Rooks; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		switch fm := onlyFile[sq&7]; {
		case fm&allPawns == 0:
			counts[RookOpenFile]++
		case fm&us.Pawns == 0:
			counts[RookSemiOpenFile]++
		}
		if relativeRank(sq, side) == 6 {
			counts[RookSeventhRank]++
		}
	}
	counts[QueenCentralized] = popcount(us.Queens & centralSquares)

	for i, n := range counts {
		if n > 0 {
			tr.Add(side, l.Pieces+i, n)
		}
	}
}

// outposts counts pieces on relative ranks 4-6 that are defended by a pawn
// and can never be chased away by an enemy pawn.
func outposts(bb uint64, side int, si *sideInfo) int {
	n := 0
	for x := bb & si.pawnAtt; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		if r := relativeRank(sq, side); r < 3 || r > 5 {
			continue
		}
		if si.them.Pawns&outpostMask[side][sq] == 0 {
			n++
		}
	}
	return n
}

func kingSafety(l *Layout, tr *Trace, side int, si *sideInfo, allPawns uint64) {
	for i, n := range si.kingAttack {
		if n > 0 {
			tr.Add(side, l.KingAttack+i, n)
		}
	}

	king := uint64(1) << si.kingSq
	front := pawnPush(king, side)
	shield := front | ((front &^ fileA) >> 1) | ((front &^ fileH) << 1)
	if n := popcount(si.us.Pawns & shield); n > 0 {
		tr.Add(side, l.KingShelter+KingShield, n)
	}
	switch fm := onlyFile[si.kingSq&7]; {
	case fm&allPawns == 0:
		tr.Add(side, l.KingShelter+KingOpenFile, 1)
	case fm&si.us.Pawns == 0:
		tr.Add(side, l.KingShelter+KingSemiOpenFile, 1)
	}
}
