package window

import (
	"strconv"
	"testing"

	"pgregory.net/rapid"

	"github.com/atomicstack/threadview/internal/thread"
)

func TestWindowSumInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 60).Draw(t, "blocks")
		heights := rapid.SliceOfN(rapid.IntRange(-5, 40), n, n).Draw(t, "heights")
		offset := rapid.IntRange(-100, 2000).Draw(t, "offset")
		height := rapid.IntRange(-10, 200).Draw(t, "height")
		buffer := rapid.IntRange(0, 100).Draw(t, "buffer")

		vp := newFakeViewport(offset, height)
		w := New(vp, WithBuffer(buffer), WithDefaultHeight(10), WithDebounce(0))
		defer w.Detach()

		root := &thread.Node{}
		for i := 0; i < n; i++ {
			id := strconv.Itoa(i)
			root.Children = append(root.Children, &thread.Node{ID: id})
			w.SetBlockHeight(id, heights[i])
		}
		state := w.SetRootThread(root)

		visible := 0
		for _, block := range state.Visible {
			visible += w.Height(block.ID)
		}
		if got, want := state.OffscreenAbove+visible+state.OffscreenBelow, w.TotalHeight(); got != want {
			t.Fatalf("expected sum %d, got %d", want, got)
		}
		if state.OffscreenAbove < 0 || state.OffscreenBelow < 0 {
			t.Fatalf("expected non-negative offscreen heights, got %d/%d", state.OffscreenAbove, state.OffscreenBelow)
		}

		ids := w.BlockIDs()
		if len(state.Visible) > 0 {
			start, ok := -1, false
			for idx, id := range ids {
				if id == state.Visible[0].ID {
					start, ok = idx, true
					break
				}
			}
			if !ok {
				t.Fatalf("visible block %s not in block list", state.Visible[0].ID)
			}
			for offsetIdx, block := range state.Visible {
				if ids[start+offsetIdx] != block.ID {
					t.Fatalf("expected contiguous visible run, got %v", state.VisibleIDs())
				}
			}
		}
	})
}
