package engine

// ParamType classifies a tunable feature for coefficient pruning.
//
// Normal features are pure differentials: their midgame and endgame
// contributions cancel whenever both sides score the same count. Safety and
// Complexity features are stored whenever either side fires, so a non-linear
// scaling term can be layered on top later without re-extracting.
type ParamType uint8

const (
	Normal ParamType = iota
	Complexity
	Safety
)

func (t ParamType) String() string {
	switch t {
	case Complexity:
		return "complexity"
	case Safety:
		return "safety"
	}
	return "normal"
}

// Shape tells the report writer how to lay out a group.
type Shape uint8

const (
	Scalar Shape = iota // one named row per feature
	Board               // 64 squares printed as an 8x8 board, rank 8 first
	Table               // indexed rows (mobility counts, ranks, ...)
)

// Group is a contiguous run of features sharing a name and a printing shape.
type Group struct {
	Name   string
	Start  int
	Size   int
	Kind   ParamType
	Shape  Shape
	Labels []string // Scalar groups only
}

// Indexes holds the first feature index of every group of the standard
// evaluation model. Offsets inside a group use the constants below.
type Indexes struct {
	Material int // P..Q

	PSQT int // 6 pieces x 64 squares, white's point of view

	KnightMobility int // 0..8 reachable squares
	BishopMobility int // 0..13
	RookMobility   int // 0..14
	QueenMobility  int // 0..27

	Threats       int
	PawnStructure int
	PassedPawn    int // by relative rank
	Pieces        int
	KingAttack    int // attacks on the enemy king zone by N, B, R, Q
	KingShelter   int
	Tempo         int
}

// Threat offsets.
const (
	ThreatPawnMinor = iota
	ThreatPawnRook
	ThreatPawnQueen
	ThreatMinorRook
	ThreatMinorQueen
	ThreatRookQueen
	threatCount
)

// Pawn structure offsets.
const (
	PawnDoubled = iota
	PawnIsolated
	PawnBackward
	PawnConnected
	PawnPhalanx
	PawnBlocked
	pawnStructureCount
)

// Piece term offsets.
const (
	BishopPair = iota
	KnightOutpost
	BishopOutpost
	RookOpenFile
	RookSemiOpenFile
	RookSeventhRank
	QueenCentralized
	pieceTermCount
)

// King shelter offsets.
const (
	KingShield = iota
	KingOpenFile
	KingSemiOpenFile
	kingShelterCount
)

const (
	knightMobilitySize = 9
	bishopMobilitySize = 14
	rookMobilitySize   = 15
	queenMobilitySize  = 28
)

var pieceNames = [6]string{"Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}

// Layout maps feature indices to named groups. A Layout is immutable once
// built and may be shared between goroutines.
type Layout struct {
	Indexes
	Groups   []Group
	kinds    []ParamType
	standard bool
}

// NewLayout returns the layout of the standard evaluation model filled by
// Extract.
func NewLayout() *Layout {
	var lb layoutBuilder
	var idx Indexes

	idx.Material = lb.scalars("Material", Normal, pieceNames[:5]...)
	idx.PSQT = lb.next
	for _, name := range pieceNames {
		lb.add(Group{Name: name + " PSQT", Size: 64, Kind: Normal, Shape: Board})
	}
	idx.KnightMobility = lb.add(Group{Name: "Knight Mobility", Size: knightMobilitySize, Shape: Table})
	idx.BishopMobility = lb.add(Group{Name: "Bishop Mobility", Size: bishopMobilitySize, Shape: Table})
	idx.RookMobility = lb.add(Group{Name: "Rook Mobility", Size: rookMobilitySize, Shape: Table})
	idx.QueenMobility = lb.add(Group{Name: "Queen Mobility", Size: queenMobilitySize, Shape: Table})
	idx.Threats = lb.scalars("Threats", Normal,
		"Pawn attacks minor", "Pawn attacks rook", "Pawn attacks queen",
		"Minor attacks rook", "Minor attacks queen", "Rook attacks queen")
	idx.PawnStructure = lb.scalars("Pawn Structure", Normal,
		"Doubled", "Isolated", "Backward", "Connected", "Phalanx", "Blocked")
	idx.PassedPawn = lb.add(Group{Name: "Passed Pawn", Size: 8, Shape: Table})
	idx.Pieces = lb.scalars("Pieces", Normal,
		"Bishop pair", "Knight outpost", "Bishop outpost",
		"Rook open file", "Rook semi-open file", "Rook 7th rank", "Centralized queen")
	idx.KingAttack = lb.scalars("King Attack", Safety,
		"Knight", "Bishop", "Rook", "Queen")
	idx.KingShelter = lb.scalars("King Shelter", Normal,
		"Pawn shield", "Open file", "Semi-open file")
	idx.Tempo = lb.scalars("Tempo", Normal, "Tempo")

	l := lb.build()
	l.Indexes = idx
	l.standard = true
	return l
}

// BuildLayout assigns consecutive start offsets to groups in order. It is
// used for models that are not filled by Extract.
func BuildLayout(groups ...Group) *Layout {
	var lb layoutBuilder
	for _, g := range groups {
		lb.add(g)
	}
	return lb.build()
}

// Size is the number of tunable features.
func (l *Layout) Size() int { return len(l.kinds) }

// Kind returns the ParamType of feature i.
func (l *Layout) Kind(i int) ParamType { return l.kinds[i] }

// Standard reports whether the layout is the one Extract fills.
func (l *Layout) Standard() bool { return l.standard }

// Group returns the group with the given name.
func (l *Layout) Group(name string) (Group, bool) {
	for _, g := range l.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

type layoutBuilder struct {
	next   int
	groups []Group
	kinds  []ParamType
}

func (lb *layoutBuilder) add(g Group) int {
	g.Start = lb.next
	lb.groups = append(lb.groups, g)
	for i := 0; i < g.Size; i++ {
		lb.kinds = append(lb.kinds, g.Kind)
	}
	lb.next += g.Size
	return g.Start
}

func (lb *layoutBuilder) scalars(name string, kind ParamType, labels ...string) int {
	return lb.add(Group{Name: name, Size: len(labels), Kind: kind, Shape: Scalar, Labels: labels})
}

func (lb *layoutBuilder) build() *Layout {
	return &Layout{Groups: lb.groups, kinds: lb.kinds}
}
