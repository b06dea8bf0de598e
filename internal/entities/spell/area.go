package spell

import "github.com/KirkDiggler/spellbook/internal/pkg/textnorm"

// AreaKind classifies the geometric (or non-geometric) shape a spell
// affects.
type AreaKind string

// Area kinds
const (
	AreaKindRadiusCircle AreaKind = "radius_circle"
	AreaKindRadiusSphere AreaKind = "radius_sphere"
	AreaKindCone         AreaKind = "cone"
	AreaKindLine         AreaKind = "line"
	AreaKindRect         AreaKind = "rect"
	AreaKindRectPrism    AreaKind = "rect_prism"
	AreaKindCylinder     AreaKind = "cylinder"
	AreaKindWall         AreaKind = "wall"
	AreaKindCube         AreaKind = "cube"
	AreaKindVolume       AreaKind = "volume"
	AreaKindSurface      AreaKind = "surface"
	AreaKindTiles        AreaKind = "tiles"
	AreaKindCreatures    AreaKind = "creatures"
	AreaKindObjects      AreaKind = "objects"
	AreaKindRegion       AreaKind = "region"
	AreaKindScope        AreaKind = "scope"
	AreaKindPoint        AreaKind = "point"
	AreaKindSpecial      AreaKind = "special"
)

// AreaUnit covers linear, square, cubic, and tile-like units.
type AreaUnit string

// Area units
const (
	AreaUnitFt     AreaUnit = "ft"
	AreaUnitYd     AreaUnit = "yd"
	AreaUnitMi     AreaUnit = "mi"
	AreaUnitFt2    AreaUnit = "ft2"
	AreaUnitYd2    AreaUnit = "yd2"
	AreaUnitSquare AreaUnit = "square"
	AreaUnitFt3    AreaUnit = "ft3"
	AreaUnitYd3    AreaUnit = "yd3"
	AreaUnitHex    AreaUnit = "hex"
	AreaUnitRoom   AreaUnit = "room"
	AreaUnitFloor  AreaUnit = "floor"
	AreaUnitInch   AreaUnit = "inch"
)

// AreaShapeUnit is the linear unit of a shape dimension.
type AreaShapeUnit string

// Area shape units
const (
	AreaShapeUnitFt   AreaShapeUnit = "ft"
	AreaShapeUnitYd   AreaShapeUnit = "yd"
	AreaShapeUnitMi   AreaShapeUnit = "mi"
	AreaShapeUnitInch AreaShapeUnit = "inch"
)

// CountSubject names what a count-based area counts.
type CountSubject string

// Count subjects
const (
	CountSubjectCreature  CountSubject = "creature"
	CountSubjectUndead    CountSubject = "undead"
	CountSubjectAlly      CountSubject = "ally"
	CountSubjectEnemy     CountSubject = "enemy"
	CountSubjectObject    CountSubject = "object"
	CountSubjectStructure CountSubject = "structure"
)

// RegionUnit names a named-region scale, from single object up to an
// entire plane.
type RegionUnit string

// Region units
const (
	RegionUnitObject     RegionUnit = "object"
	RegionUnitStructure  RegionUnit = "structure"
	RegionUnitBuilding   RegionUnit = "building"
	RegionUnitBridge     RegionUnit = "bridge"
	RegionUnitShip       RegionUnit = "ship"
	RegionUnitFortress   RegionUnit = "fortress"
	RegionUnitClearing   RegionUnit = "clearing"
	RegionUnitGrove      RegionUnit = "grove"
	RegionUnitField      RegionUnit = "field"
	RegionUnitWaterbody  RegionUnit = "waterbody"
	RegionUnitCavesystem RegionUnit = "cavesystem"
	RegionUnitValley     RegionUnit = "valley"
	RegionUnitRegion     RegionUnit = "region"
	RegionUnitDomain     RegionUnit = "domain"
	RegionUnitDemiplane  RegionUnit = "demiplane"
	RegionUnitPlane      RegionUnit = "plane"
)

// ScopeUnit names a non-geometric scope.
type ScopeUnit string

// Scope units
const (
	ScopeUnitLos              ScopeUnit = "los"
	ScopeUnitLoe              ScopeUnit = "loe"
	ScopeUnitWithinRange      ScopeUnit = "within_range"
	ScopeUnitWithinSpellRange ScopeUnit = "within_spell_range"
	ScopeUnitWithinSight      ScopeUnit = "within_sight"
	ScopeUnitWithinHearing    ScopeUnit = "within_hearing"
	ScopeUnitAura             ScopeUnit = "aura"
	ScopeUnitSanctifiedGround ScopeUnit = "sanctified_ground"
	ScopeUnitDesecratedGround ScopeUnit = "desecrated_ground"
	ScopeUnitPortfolioDefined ScopeUnit = "portfolio_defined"
)

// MovesWith names what a mobile area is attached to.
type MovesWith string

// Moves-with anchors
const (
	MovesWithCaster MovesWith = "caster"
	MovesWithTarget MovesWith = "target"
	MovesWithObject MovesWith = "object"
	MovesWithFixed  MovesWith = "fixed"
)

// TileUnit names the tile type of a tile-counted area.
type TileUnit string

// Tile units
const (
	TileUnitHex    TileUnit = "hex"
	TileUnitRoom   TileUnit = "room"
	TileUnitFloor  TileUnit = "floor"
	TileUnitSquare TileUnit = "square"
)

// AreaSpec is the structured form of a legacy area-of-effect string.
// Field keys are camelCase on the wire; this matches the stored
// canonical data and must not change without a hash recompute.
type AreaSpec struct {
	Kind           AreaKind       `json:"kind"`
	Unit           *AreaUnit      `json:"unit,omitempty"`
	ShapeUnit      *AreaShapeUnit `json:"shapeUnit,omitempty"`
	Radius         *Scalar        `json:"radius,omitempty"`
	Diameter       *Scalar        `json:"diameter,omitempty"`
	Length         *Scalar        `json:"length,omitempty"`
	Width          *Scalar        `json:"width,omitempty"`
	Height         *Scalar        `json:"height,omitempty"`
	Thickness      *Scalar        `json:"thickness,omitempty"`
	Edge           *Scalar        `json:"edge,omitempty"`
	AngleDeg       *float64       `json:"angleDeg,omitempty"`
	SurfaceArea    *Scalar        `json:"surfaceArea,omitempty"`
	Volume         *Scalar        `json:"volume,omitempty"`
	TileUnit       *TileUnit      `json:"tileUnit,omitempty"`
	TileCount      *Scalar        `json:"tileCount,omitempty"`
	Count          *Scalar        `json:"count,omitempty"`
	CountSubject   *CountSubject  `json:"countSubject,omitempty"`
	RegionUnit     *RegionUnit    `json:"regionUnit,omitempty"`
	ScopeUnit      *ScopeUnit     `json:"scopeUnit,omitempty"`
	MovesWith      *MovesWith     `json:"movesWith,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
	RawLegacyValue *string        `json:"rawLegacyValue,omitempty"`
}

// Normalize applies the textual mode to notes and clamps every scalar
// dimension.
func (a *AreaSpec) Normalize() {
	if a == nil {
		return
	}
	if a.Kind == "" {
		a.Kind = AreaKindSpecial
	}
	if a.Notes != nil {
		notes := textnorm.Textual(*a.Notes)
		a.Notes = &notes
	}
	a.Radius.Normalize()
	a.Diameter.Normalize()
	a.Length.Normalize()
	a.Width.Normalize()
	a.Height.Normalize()
	a.Thickness.Normalize()
	a.Edge.Normalize()
	a.SurfaceArea.Normalize()
	a.Volume.Normalize()
	a.TileCount.Normalize()
	a.Count.Normalize()
	textnorm.ClampPrecisionPtr(a.AngleDeg)
}
