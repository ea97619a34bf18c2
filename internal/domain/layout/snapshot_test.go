package layout_test

import (
	"testing"

	"github.com/bnema/termdeck/internal/domain/entity"
	"github.com/bnema/termdeck/internal/domain/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	tree := layout.New(layout.DefaultOptions())
	a, _ := tree.Split(entity.NoPane, entity.SplitHorizontal)
	b, _ := tree.Split(a, entity.SplitVertical)
	_, _ = tree.Split(b, entity.SplitHorizontal)
	tree.Compute(entity.Size{W: 800, H: 600})
	require.True(t, tree.DragBorder(entity.Point{X: 400, Y: 10}))
	require.True(t, tree.DragBorder(entity.Point{X: 300, Y: 10}))
	tree.EndDrag()

	snap := tree.Snapshot(func(id entity.PaneID) *entity.PaneSnapshot {
		return &entity.PaneSnapshot{Kind: "terminal", Cwd: "/tmp/" + id.String()}
	})
	assert.Equal(t, "/tmp/1", snap.First.Pane.Cwd)
	assert.InDelta(t, 0.375, snap.Ratio, 1e-9)

	restored, err := layout.FromSnapshot(snap, layout.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, tree.Panes(), restored.Panes())
	assert.Equal(t, tree.Compute(entity.Size{W: 800, H: 600}), restored.Compute(entity.Size{W: 800, H: 600}))

	id, err := restored.Split(a, entity.SplitVertical)
	require.NoError(t, err)
	assert.Equal(t, entity.PaneID(4), id, "new ids start above the restored maximum")
}

func TestFromSnapshot_Invalid(t *testing.T) {
	tests := []struct {
		name string
		snap *entity.LayoutNodeSnapshot
	}{
		{
			name: "duplicate pane",
			snap: &entity.LayoutNodeSnapshot{
				Direction: "vertical", Ratio: 0.5,
				First:  &entity.LayoutNodeSnapshot{Pane: &entity.PaneSnapshot{ID: 1}},
				Second: &entity.LayoutNodeSnapshot{Pane: &entity.PaneSnapshot{ID: 1}},
			},
		},
		{
			name: "missing child",
			snap: &entity.LayoutNodeSnapshot{
				Direction: "vertical", Ratio: 0.5,
				First: &entity.LayoutNodeSnapshot{Pane: &entity.PaneSnapshot{ID: 1}},
			},
		},
		{
			name: "bad direction",
			snap: &entity.LayoutNodeSnapshot{
				Direction: "diagonal",
				First:     &entity.LayoutNodeSnapshot{Pane: &entity.PaneSnapshot{ID: 1}},
				Second:    &entity.LayoutNodeSnapshot{Pane: &entity.PaneSnapshot{ID: 2}},
			},
		},
		{
			name: "zero id",
			snap: &entity.LayoutNodeSnapshot{Pane: &entity.PaneSnapshot{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := layout.FromSnapshot(tt.snap, layout.DefaultOptions())
			assert.ErrorIs(t, err, layout.ErrInvalidSnapshot)
		})
	}
}

func TestFromSnapshot_ClampsRatio(t *testing.T) {
	snap := &entity.LayoutNodeSnapshot{
		Direction: "horizontal", Ratio: 1.7,
		First:  &entity.LayoutNodeSnapshot{Pane: &entity.PaneSnapshot{ID: 4}},
		Second: &entity.LayoutNodeSnapshot{Pane: &entity.PaneSnapshot{ID: 9}},
	}
	tree, err := layout.FromSnapshot(snap, layout.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, layout.DefaultMaxRatio, tree.Snapshot(nil).Ratio)
}
