package entity

import "github.com/opd-ai/isoforge/pkg/tilemap"

// WorldObjectKind discriminates the WorldObjectID tagged union.
type WorldObjectKind int

const (
	WorldObjectNone WorldObjectKind = iota
	WorldObjectTileLayer
	WorldObjectEntity
	WorldObjectAVEntity
)

// WorldObjectID identifies what, if anything, a sprite on screen
// corresponds to in the world: nothing (a standalone phantom), a
// placed tile layer, a server-synced entity, or an A/V entity.
type WorldObjectID struct {
	kind     WorldObjectKind
	layerID  tilemap.TileLayerID
	entityID ID
	avID     AVID
}

// NoneWorldObjectID returns a WorldObjectID with no referent.
func NoneWorldObjectID() WorldObjectID {
	return WorldObjectID{kind: WorldObjectNone}
}

// TileLayerWorldObjectID wraps a tile layer identity.
func TileLayerWorldObjectID(id tilemap.TileLayerID) WorldObjectID {
	return WorldObjectID{kind: WorldObjectTileLayer, layerID: id}
}

// EntityWorldObjectID wraps an entity id.
func EntityWorldObjectID(id ID) WorldObjectID {
	return WorldObjectID{kind: WorldObjectEntity, entityID: id}
}

// AVEntityWorldObjectID wraps an A/V entity id.
func AVEntityWorldObjectID(id AVID) WorldObjectID {
	return WorldObjectID{kind: WorldObjectAVEntity, avID: id}
}

// Kind reports which variant this WorldObjectID holds.
func (w WorldObjectID) Kind() WorldObjectKind { return w.kind }

// TileLayerID returns the wrapped tile layer id. ok is false unless
// Kind() == WorldObjectTileLayer.
func (w WorldObjectID) TileLayerID() (tilemap.TileLayerID, bool) {
	return w.layerID, w.kind == WorldObjectTileLayer
}

// EntityID returns the wrapped entity id. ok is false unless
// Kind() == WorldObjectEntity.
func (w WorldObjectID) EntityID() (ID, bool) {
	return w.entityID, w.kind == WorldObjectEntity
}

// AVEntityID returns the wrapped A/V entity id. ok is false unless
// Kind() == WorldObjectAVEntity.
func (w WorldObjectID) AVEntityID() (AVID, bool) {
	return w.avID, w.kind == WorldObjectAVEntity
}

// Equals reports whether w and other identify the same object.
func (w WorldObjectID) Equals(other WorldObjectID) bool {
	if w.kind != other.kind {
		return false
	}
	switch w.kind {
	case WorldObjectNone:
		return true
	case WorldObjectTileLayer:
		return w.layerID == other.layerID
	case WorldObjectEntity:
		return w.entityID == other.entityID
	case WorldObjectAVEntity:
		return w.avID == other.avID
	default:
		return false
	}
}
