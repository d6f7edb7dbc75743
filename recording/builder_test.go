package recording

import (
	"image/color"
	"testing"

	"github.com/gogpu/compositor"
)

func red() color.NRGBA { return color.NRGBA{R: 255, A: 255} }

func TestBuilderRecordsCommands(t *testing.T) {
	b := NewBuilder()
	b.Save()
	b.Translate(10, 20)
	b.DrawRect(compositor.NewRect(0, 0, 5, 5), red(), compositor.NewPaint())
	b.Restore()

	list := b.Build()
	cmds := list.Commands()
	if len(cmds) != 4 {
		t.Fatalf("recorded %d commands, want 4", len(cmds))
	}
	wantTypes := []CommandType{CmdSave, CmdTransform, CmdDrawRect, CmdRestore}
	for i, cmd := range cmds {
		if cmd.Type() != wantTypes[i] {
			t.Errorf("command %d = %v, want %v", i, cmd.Type(), wantTypes[i])
		}
	}
}

func TestBuilderBoundsInRootSpace(t *testing.T) {
	b := NewBuilder()
	b.Save()
	b.Translate(100, 100)
	b.DrawRect(compositor.NewRect(0, 0, 10, 10), red(), compositor.NewPaint())
	b.Restore()
	b.DrawRect(compositor.NewRect(0, 0, 1, 1), red(), compositor.NewPaint())

	got := b.Build().Bounds()
	want := compositor.Rect{MinX: 0, MinY: 0, MaxX: 110, MaxY: 110}
	if got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}

func TestBuilderSaveCount(t *testing.T) {
	b := NewBuilder()
	if got := b.SaveCount(); got != 1 {
		t.Fatalf("fresh SaveCount() = %d, want 1", got)
	}
	b.Save()
	b.SaveLayer(compositor.NewRect(0, 0, 10, 10), compositor.NewPaint())
	if got := b.SaveCount(); got != 3 {
		t.Fatalf("SaveCount() = %d, want 3", got)
	}
	b.Restore()
	b.Restore()
	if got := b.SaveCount(); got != 1 {
		t.Fatalf("balanced SaveCount() = %d, want 1", got)
	}
}

func TestBuilderRestoreWithoutSavePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("unbalanced Restore did not panic")
		}
	}()
	NewBuilder().Restore()
}

func TestBuilderBuildClosesOpenScopes(t *testing.T) {
	b := NewBuilder()
	b.Save()
	b.Save()
	b.DrawRect(compositor.NewRect(0, 0, 1, 1), red(), compositor.NewPaint())
	list := b.Build()

	depth := 0
	for _, cmd := range list.Commands() {
		switch cmd.Type() {
		case CmdSave, CmdSaveLayer:
			depth++
		case CmdRestore:
			depth--
		}
	}
	if depth != 0 {
		t.Errorf("built list has unbalanced depth %d", depth)
	}
}

func TestBuilderSkipsNoOps(t *testing.T) {
	b := NewBuilder()
	b.DrawPath(nil, red(), compositor.NewPaint())
	b.DrawImage(nil, compositor.Point{}, compositor.NewPaint())
	b.DrawText("", 0, 0, red(), compositor.NewPaint())
	b.DrawDisplayList(nil, 1)
	list := b.Build()
	if !list.IsEmpty() {
		t.Errorf("no-op draws recorded %d commands", len(list.Commands()))
	}
}

func TestDisplayListReplay(t *testing.T) {
	inner := NewBuilder()
	inner.DrawRect(compositor.NewRect(1, 1, 2, 2), red(), compositor.NewPaint())
	innerList := inner.Build()

	b := NewBuilder()
	b.Save()
	b.ClipRect(compositor.NewRect(0, 0, 50, 50), true)
	b.DrawDisplayList(innerList, 0.5)
	b.Restore()
	list := b.Build()

	replayed := NewBuilder()
	list.Replay(replayed)
	if !list.Equal(replayed.Build()) {
		t.Error("replay onto a fresh builder should reproduce the list")
	}
}

func TestDisplayListOpCountRecurses(t *testing.T) {
	inner := NewBuilder()
	inner.DrawRect(compositor.NewRect(0, 0, 1, 1), red(), compositor.NewPaint())
	inner.DrawRect(compositor.NewRect(1, 1, 1, 1), red(), compositor.NewPaint())
	innerList := inner.Build()

	b := NewBuilder()
	b.DrawRect(compositor.NewRect(0, 0, 1, 1), red(), compositor.NewPaint())
	b.DrawDisplayList(innerList, 1)
	list := b.Build()

	if got := list.OpCount(); got != 3 {
		t.Errorf("OpCount() = %d, want 3", got)
	}
}

func TestDisplayListEqual(t *testing.T) {
	build := func(c color.NRGBA) *DisplayList {
		b := NewBuilder()
		b.Save()
		b.DrawRect(compositor.NewRect(0, 0, 10, 10), c, compositor.NewPaint())
		b.Restore()
		return b.Build()
	}
	if !build(red()).Equal(build(red())) {
		t.Error("identical recordings compare unequal")
	}
	if build(red()).Equal(build(color.NRGBA{B: 255, A: 255})) {
		t.Error("different recordings compare equal")
	}
	var nilList *DisplayList
	if !nilList.Equal(nil) {
		t.Error("two nil lists should compare equal")
	}
}
