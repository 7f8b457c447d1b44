package widgets

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/jigsnap/internal/engine"
)

// Board background, a dark table felt.
var boardColor = color.NRGBA{R: 34, G: 54, B: 44, A: 255}

// ToScene converts a widget-local position to normalized scene
// coordinates: x and y in [-1,1], y growing upward.
func ToScene(pos fyne.Position, size fyne.Size) (x, y float64) {
	if size.Width <= 0 || size.Height <= 0 {
		return 0, 0
	}
	x = 2 * (float64(pos.X)/float64(size.Width) - 0.5)
	y = -2 * (float64(pos.Y)/float64(size.Height) - 0.5)
	return x, y
}

// FromScene converts normalized scene coordinates to a widget-local position.
func FromScene(x, y float64, size fyne.Size) fyne.Position {
	return fyne.NewPos(
		float32((x/2+0.5)*float64(size.Width)),
		float32((0.5-y/2)*float64(size.Height)),
	)
}

// PuzzleBoard draws the pieces of a session and turns mouse input into
// session pointer events.
type PuzzleBoard struct {
	widget.BaseWidget

	session   *engine.Session
	tiles     map[int]*canvas.Image
	onRelease func([]engine.Snap, error)
}

func NewPuzzleBoard() *PuzzleBoard {
	b := &PuzzleBoard{tiles: map[int]*canvas.Image{}}
	b.ExtendBaseWidget(b)
	return b
}

// SetSession shows a new stage. Each piece is textured with its cell of img.
func (b *PuzzleBoard) SetSession(s *engine.Session, img image.Image) {
	b.session = s
	b.tiles = make(map[int]*canvas.Image, s.Board().Len())
	rows, cols := s.Stage().Rows, s.Stage().Cols
	for _, q := range s.Frame() {
		tile := canvas.NewImageFromImage(CropPiece(img, q.Tex, rows, cols))
		tile.FillMode = canvas.ImageFillStretch
		tile.ScaleMode = canvas.ImageScaleFastest
		b.tiles[q.ID] = tile
	}
	b.Refresh()
}

// Session returns the session on display, or nil.
func (b *PuzzleBoard) Session() *engine.Session { return b.session }

// SetOnRelease registers a callback run after every drop with the snaps it
// caused.
func (b *PuzzleBoard) SetOnRelease(fn func([]engine.Snap, error)) {
	b.onRelease = fn
}

// MouseDown picks up the piece under the pointer.
func (b *PuzzleBoard) MouseDown(ev *desktop.MouseEvent) {
	if b.session == nil || ev.Button != desktop.MouseButtonPrimary {
		return
	}
	x, y := ToScene(ev.Position, b.Size())
	if b.session.OnPointerDown(x, y) {
		b.Refresh()
	}
}

// MouseUp drops a piece that was pressed without being dragged.
func (b *PuzzleBoard) MouseUp(*desktop.MouseEvent) {
	b.release()
}

// Dragged moves the held piece and its group.
func (b *PuzzleBoard) Dragged(ev *fyne.DragEvent) {
	if b.session == nil || !b.session.Dragging() {
		return
	}
	b.session.OnPointerMove(ToScene(ev.Position, b.Size()))
	b.Refresh()
}

// DragEnd drops the held piece.
func (b *PuzzleBoard) DragEnd() {
	b.release()
}

func (b *PuzzleBoard) release() {
	if b.session == nil || !b.session.Dragging() {
		return
	}
	snaps, err := b.session.OnPointerUp()
	b.Refresh()
	if b.onRelease != nil {
		b.onRelease(snaps, err)
	}
}

func (b *PuzzleBoard) CreateRenderer() fyne.WidgetRenderer {
	return &boardRenderer{board: b, bg: canvas.NewRectangle(boardColor)}
}

type boardRenderer struct {
	board *PuzzleBoard
	bg    *canvas.Rectangle
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	s := r.board.session
	if s == nil {
		return
	}
	w, h := s.PieceSize()
	tileSize := fyne.NewSize(float32(w/2)*size.Width, float32(h/2)*size.Height)
	for _, q := range s.Frame() {
		tile, ok := r.board.tiles[q.ID]
		if !ok {
			continue
		}
		center := FromScene(q.Pos.X, q.Pos.Y, size)
		tile.Resize(tileSize)
		tile.Move(fyne.NewPos(center.X-tileSize.Width/2, center.Y-tileSize.Height/2))
	}
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

func (r *boardRenderer) Refresh() {
	r.Layout(r.board.Size())
	canvas.Refresh(r.board)
}

// Objects returns the background followed by the tiles in depth order, so
// a lifted group draws on top.
func (r *boardRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.bg}
	if r.board.session == nil {
		return objs
	}
	for _, q := range r.board.session.Frame() {
		if tile, ok := r.board.tiles[q.ID]; ok {
			objs = append(objs, tile)
		}
	}
	return objs
}

func (r *boardRenderer) Destroy() {}
