package render

import (
	"image"

	"github.com/scorelect/drillboard/internal/cache"
	"github.com/scorelect/drillboard/pkg/core"
)

// Resolver attaches sprite handles to cones, balls and pitches. Sprites are
// built once per key and shared between objects.
type Resolver struct {
	handles *cache.Handles
}

// NewResolver returns a resolver backed by handles. A nil cache gets a private one.
func NewResolver(handles *cache.Handles) *Resolver {
	if handles == nil {
		handles = cache.NewHandles()
	}
	return &Resolver{handles: handles}
}

// Resolve sets obj.Handle from the object's type and pitch subtype. Variants
// drawn as vectors get a nil handle.
func (r *Resolver) Resolve(obj *core.Object) {
	key, build := handleFor(obj.Shape)
	if build == nil {
		obj.Handle = nil
		return
	}
	obj.Handle = r.handles.GetOrCreate(key, build)
}

// HandleKey returns the cache key of the sprite obj is drawn with, or "" for
// vector-only variants.
func HandleKey(obj *core.Object) string {
	key, _ := handleFor(obj.Shape)
	return key
}

func handleFor(s core.Shape) (string, func() image.Image) {
	switch s := s.(type) {
	case *core.Marker:
		switch s.Type {
		case core.KindCone:
			return "cone", func() image.Image { return ConeSprite(MarkerSpriteSize) }
		case core.KindBall:
			return "ball", func() image.Image { return BallSprite(MarkerSpriteSize) }
		}
	case *core.Pitch:
		sport := knownSport(s.Subtype)
		return "pitch/" + string(sport), func() image.Image { return PitchSprite(sport) }
	}
	return "", nil
}

func knownSport(s core.Sport) core.Sport {
	for _, known := range core.Sports {
		if s == known {
			return s
		}
	}
	return core.SportGAA
}
