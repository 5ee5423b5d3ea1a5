package block

// ID identifies a block type. Air (0) is empty: never rendered and never occluding.
type ID uint8

const (
	Air   ID = 0
	Stone ID = 1
	Grass ID = 2
	Dirt  ID = 3
	Wood  ID = 4
	Iron  ID = 5
)

// TileSize is the edge of one atlas tile in UV units.
const TileSize = 1.0 / 16

// AtlasOffset is the UV-space origin of a block type's region in the texture atlas.
type AtlasOffset struct {
	U, V float32
}

// Entry registers one block type.
type Entry struct {
	ID     ID
	Name   string
	Offset AtlasOffset
}

// DefaultEntries is the built-in block table.
var DefaultEntries = []Entry{
	{ID: Stone, Name: "stone", Offset: AtlasOffset{0.75, 0}},
	{ID: Grass, Name: "grass", Offset: AtlasOffset{0, 0}},
	{ID: Dirt, Name: "dirt", Offset: AtlasOffset{0, 0.25}},
	{ID: Wood, Name: "wood", Offset: AtlasOffset{0.5, 0}},
	{ID: Iron, Name: "iron", Offset: AtlasOffset{0.25, 0}},
}
