package rooms

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"
	"time"

	"golang.org/x/image/bmp"

	"github.com/vovakirdan/roomwalk/internal/core"
	"github.com/vovakirdan/roomwalk/internal/session"
	"github.com/vovakirdan/roomwalk/internal/world"
)

func encodeBMP(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatalf("bmp.Encode: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// roomImage paints a 4×4 room: ground everywhere with one of each special cell.
func roomImage() *image.RGBA {
	room, err := world.ParseRoom([]string{
		"#..#",
		".pt.",
		".oE.",
		"#..#",
	})
	if err != nil {
		panic(err)
	}
	return DefaultPalette.Image(room)
}

func TestDecodeFormats(t *testing.T) {
	img := roomImage()
	tests := []struct {
		name string
		data []byte
	}{
		{"room.bmp", encodeBMP(t, img)},
		{"room.PNG", encodePNG(t, img)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			room, err := Decode(tc.name, bytes.NewReader(tc.data), 4, 4)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			checks := map[core.Point]world.Cell{
				core.Pt(0, 0): world.Wall,
				core.Pt(1, 0): world.Ground,
				core.Pt(1, 1): world.Person,
				core.Pt(2, 1): world.Treasure,
				core.Pt(1, 2): world.OneStep,
				core.Pt(2, 2): world.Exit,
			}
			for p, want := range checks {
				if got := room.At(p); got != want {
					t.Errorf("cell %v = %v, expected %v", p, got, want)
				}
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	img := roomImage()
	odd := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range odd.Pix {
		odd.Pix[i] = 0xff
	}
	odd.Set(3, 2, color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff})

	tests := []struct {
		name    string
		file    string
		data    []byte
		w, h    int
		wantErr error
	}{
		{"wrong size", "room.png", encodePNG(t, img), 16, 16, ErrSize},
		{"unmapped color", "odd.png", encodePNG(t, odd), 4, 4, ErrColor},
		{"unknown extension", "room.gif", nil, 4, 4, ErrFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.file, bytes.NewReader(tc.data), tc.w, tc.h)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Decode error = %v, expected %v", err, tc.wantErr)
			}
		})
	}

	if _, err := Decode("broken.bmp", bytes.NewReader([]byte("BMnope")), 4, 4); err == nil {
		t.Error("corrupt bitmap should fail to decode")
	}
}

func TestPaletteLookup(t *testing.T) {
	c, ok := DefaultPalette.Cell(color.RGBA{R: 0, G: 0xff, B: 0xff, A: 0xff})
	if !ok || c != world.Person {
		t.Errorf("cyan = %v/%v, expected person", c, ok)
	}
	if _, ok := DefaultPalette.Cell(color.RGBA{R: 1, A: 0xff}); ok {
		t.Error("near-black should not match")
	}
	if RGBOf(color.RGBA{R: 0xff, A: 0xff}).String() != "#ff0000" {
		t.Error("RGB formatting")
	}
}

func testFS(t *testing.T) (fstest.MapFS, Layout) {
	t.Helper()
	data := encodeBMP(t, roomImage())
	fsys := fstest.MapFS{
		"left.bmp":  {Data: data},
		"right.bmp": {Data: data},
	}
	layout := Layout{
		W: 2, H: 1, RoomW: 4, RoomH: 4,
		Files: [][]string{{"left.bmp", "right.bmp"}},
	}
	return fsys, layout
}

func waitResults(t *testing.T, l *Loader, n int) []session.Result {
	t.Helper()
	var got []session.Result
	deadline := time.After(5 * time.Second)
	for len(got) < n {
		select {
		case r := <-l.Results():
			got = append(got, r)
		case <-deadline:
			t.Fatalf("got %d results, expected %d", len(got), n)
		}
	}
	return got
}

func TestLoaderAsync(t *testing.T) {
	fsys, layout := testFS(t)
	l, err := NewLoader(fsys, layout)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	for _, rc := range layout.Coords() {
		l.RequestRoom(session.Request{Gen: 3, Coord: rc})
	}
	results := waitResults(t, l, 2)
	seen := map[world.RoomCoord]bool{}
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("load %v: %v", r.Coord, r.Err)
		}
		if r.Gen != 3 {
			t.Errorf("result gen = %d, expected 3", r.Gen)
		}
		seen[r.Coord] = true
	}
	if len(seen) != 2 {
		t.Errorf("results cover %d rooms, expected 2", len(seen))
	}
	if extra := l.Poll(); len(extra) != 0 {
		t.Errorf("Poll returned %d extra results", len(extra))
	}
}

func TestLoaderReturnsPristineClones(t *testing.T) {
	fsys, layout := testFS(t)
	l, err := NewLoader(fsys, layout)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	rc := world.RoomCoord{X: 0, Y: 0}
	a, err := l.Load(rc)
	if err != nil {
		t.Fatal(err)
	}
	a.Set(core.Pt(1, 1), world.Ground) // player collected it

	// Cached copy must be untouched, even with the file gone
	delete(fsys, "left.bmp")
	b, err := l.Load(rc)
	if err != nil {
		t.Fatalf("cached Load: %v", err)
	}
	if b.At(core.Pt(1, 1)) != world.Person {
		t.Error("cache should hand out pristine rooms")
	}
}

func TestLoaderReportsErrors(t *testing.T) {
	fsys, layout := testFS(t)
	delete(fsys, "right.bmp")
	l, err := NewLoader(fsys, layout)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	l.RequestRoom(session.Request{Coord: world.RoomCoord{X: 1, Y: 0}})
	r := waitResults(t, l, 1)[0]
	if r.Err == nil || r.Room != nil {
		t.Errorf("missing file result = %+v, expected an error", r)
	}

	rooms, err := l.LoadAll(context.Background())
	if err == nil {
		t.Error("LoadAll should report the missing room")
	}
	if len(rooms) != 1 {
		t.Errorf("LoadAll returned %d rooms, expected 1", len(rooms))
	}
}

func TestLoaderDrivesSession(t *testing.T) {
	l, err := NewLoader(DefaultFS(), DefaultLayout())
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	s, err := session.New(session.DefaultConfig(), l, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Start()

	deadline := time.Now().Add(5 * time.Second)
	for s.World().Maze.LoadedCount() < 6 && time.Now().Before(deadline) {
		for _, r := range l.Poll() {
			s.RoomLoaded(r)
		}
		time.Sleep(time.Millisecond)
	}
	if s.State() != session.Playing {
		t.Fatalf("state = %v, err = %v", s.State(), s.LoadErr())
	}
	if s.Totals().People() != 14 || s.Totals().Treasure() != 21 {
		t.Errorf("totals = %v, expected 14 people and 21 treasure", s.Totals())
	}
}

func TestDefaultLevels(t *testing.T) {
	l, err := NewLoader(DefaultFS(), DefaultLayout())
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	rooms, err := l.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(rooms) != 6 {
		t.Fatalf("loaded %d rooms, expected 6", len(rooms))
	}

	hall := rooms[world.RoomCoord{X: 1, Y: 1}]
	if hall.At(core.Pt(8, 8)) != world.Ground {
		t.Error("start position in the main hall should be ground")
	}
	exits := 0
	for _, r := range rooms {
		exits += r.Count(world.Exit)
	}
	if exits != 1 {
		t.Errorf("maze has %d exits, expected 1", exits)
	}
}

func TestLayoutValidate(t *testing.T) {
	if err := DefaultLayout().Validate(); err != nil {
		t.Errorf("DefaultLayout invalid: %v", err)
	}
	bad := DefaultLayout()
	bad.Files[1] = bad.Files[1][:2]
	if err := bad.Validate(); err == nil {
		t.Error("short row should be rejected")
	}
	bad = DefaultLayout()
	bad.Files[0][0] = ""
	if err := bad.Validate(); err == nil {
		t.Error("empty file name should be rejected")
	}
	if _, err := NewLoader(DefaultFS(), Layout{}); err == nil {
		t.Error("NewLoader should validate the layout")
	}
}
