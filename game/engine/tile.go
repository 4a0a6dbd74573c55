package engine

// TileID identifies a tile archetype
type TileID int

const (
	Player TileID = iota
	Void
	Earth
	Target
	Wall
	Ball
	Block
)

// Layer is the depth a tile occupies inside a cell
type Layer int

const (
	LayerGround Layer = 0
	LayerObject Layer = 1
)

// Kind holds the immutable attributes of a tile archetype
type Kind struct {
	ID      TileID `json:"id"`
	Name    string `json:"name"`
	Layer   Layer  `json:"layer"`
	CanMove bool   `json:"can_move"`
	Power   int    `json:"power"`
}

// catalog is indexed by TileID and never mutated
var catalog = [...]Kind{
	Player: {ID: Player, Name: "player", Layer: LayerObject, CanMove: true, Power: 15},
	Void:   {ID: Void, Name: "void", Layer: LayerGround, CanMove: false, Power: 0},
	Earth:  {ID: Earth, Name: "earth", Layer: LayerGround, CanMove: true, Power: 0},
	Target: {ID: Target, Name: "target", Layer: LayerGround, CanMove: true, Power: 0},
	Wall:   {ID: Wall, Name: "wall", Layer: LayerGround, CanMove: false, Power: 0},
	Ball:   {ID: Ball, Name: "ball", Layer: LayerObject, CanMove: true, Power: 10},
	Block:  {ID: Block, Name: "block", Layer: LayerObject, CanMove: false, Power: 100},
}

// LookupKind returns the archetype for id
func LookupKind(id TileID) (Kind, error) {
	if id < 0 || int(id) >= len(catalog) {
		return Kind{}, NotFoundf("undefined object id %d", id)
	}
	return catalog[id], nil
}

// Kinds returns a copy of the whole catalog
func Kinds() []Kind {
	out := make([]Kind, len(catalog))
	copy(out, catalog[:])
	return out
}

func (id TileID) String() string {
	if k, err := LookupKind(id); err == nil {
		return k.Name
	}
	return "unknown"
}

// Tile is a placed instance of a Kind; only Position changes over its life.
type Tile struct {
	Kind
	Position Position
}

// NewTile creates a tile of the given archetype at pos
func NewTile(id TileID, pos Position) (*Tile, error) {
	kind, err := LookupKind(id)
	if err != nil {
		return nil, err
	}
	return &Tile{Kind: kind, Position: pos}, nil
}

func mustTile(id TileID, pos Position) *Tile {
	t, err := NewTile(id, pos)
	if err != nil {
		panic(err)
	}
	return t
}
