package layout

import (
	"math"

	"github.com/bnema/termdeck/internal/domain/entity"
)

// SplitInfo describes one split during Compute.
type SplitInfo struct {
	Direction entity.SplitDirection
	Ratio     float64 // stored ratio, already clamped
	Extent    int     // length of the split's rect along its axis
	// FocusIn is 1 when the focused pane lives in the first child, 2 when it
	// lives in the second, 0 when the split does not contain it.
	FocusIn int
}

// StoredCut is the cut produced by the stored ratio alone.
func (s SplitInfo) StoredCut() int {
	return cutAt(s.Extent, s.Ratio)
}

// Policy decides how much of a split's extent the first child receives.
// It never changes stored ratios; the tree clamps the result to [0, Extent]
// so every policy preserves the tiling.
type Policy interface {
	Cut(info SplitInfo) int
	Name() string
}

// StoredRatios lays out every split at its stored ratio.
type StoredRatios struct{}

func (StoredRatios) Cut(info SplitInfo) int { return info.StoredCut() }
func (StoredRatios) Name() string           { return "stored" }

// ShrinkUnfocused guarantees the child holding the focused pane at least
// Share of each split it sits in, shrinking the other side proportionally.
type ShrinkUnfocused struct {
	Share float64
}

func (p ShrinkUnfocused) Cut(info SplitInfo) int {
	stored := info.StoredCut()
	share := p.Share
	if share <= 0 || share >= 1 {
		return stored
	}
	switch info.FocusIn {
	case 1:
		return max(stored, cutAt(info.Extent, share))
	case 2:
		return min(stored, cutAt(info.Extent, 1-share))
	default:
		return stored
	}
}

func (ShrinkUnfocused) Name() string { return "shrink" }

// CollapseUnfocused reduces the side without the focused pane to an
// indicator strip of Indicator units.
type CollapseUnfocused struct {
	Indicator int
}

func (p CollapseUnfocused) Cut(info SplitInfo) int {
	strip := min(max(p.Indicator, 0), info.Extent/2)
	switch info.FocusIn {
	case 1:
		return info.Extent - strip
	case 2:
		return strip
	default:
		return info.StoredCut()
	}
}

func (CollapseUnfocused) Name() string { return "collapse" }

// PolicyByName builds a policy from its configuration name.
func PolicyByName(name string, share float64, indicator int) (Policy, bool) {
	switch name {
	case "", "stored":
		return StoredRatios{}, true
	case "shrink":
		return ShrinkUnfocused{Share: share}, true
	case "collapse":
		return CollapseUnfocused{Indicator: indicator}, true
	default:
		return StoredRatios{}, false
	}
}

func cutAt(extent int, ratio float64) int {
	return int(math.Round(float64(extent) * ratio))
}
