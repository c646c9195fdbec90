// Package viewer is an interactive terminal browser for decoded YM
// register streams: one row per frame, tone/noise/mixer/envelope
// columns, scrollable with the usual keys.
package viewer

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/psgtools/go-ym2sn/ymsn/ym"
)

const headerRows = 3

// Run opens the viewer and blocks until the user quits.
func Run(song *ym.Song) error {
	if len(song.Frames) == 0 {
		return fmt.Errorf("viewer: song has no frames")
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("viewer: initializing terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("viewer: initializing terminal: %w", err)
	}
	defer screen.Fini()

	v := &viewer{screen: screen, song: song}
	v.loop()
	return nil
}

type viewer struct {
	screen tcell.Screen
	song   *ym.Song
	top    int // first visible frame
}

func (v *viewer) loop() {
	for {
		v.draw()
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if !v.handleKey(ev) {
				return
			}
		}
	}
}

func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	_, h := v.screen.Size()
	page := h - headerRows
	if page < 1 {
		page = 1
	}

	switch {
	case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
		return false
	case ev.Key() == tcell.KeyUp, ev.Rune() == 'k':
		v.scroll(-1)
	case ev.Key() == tcell.KeyDown, ev.Rune() == 'j':
		v.scroll(1)
	case ev.Key() == tcell.KeyPgUp:
		v.scroll(-page)
	case ev.Key() == tcell.KeyPgDn, ev.Rune() == ' ':
		v.scroll(page)
	case ev.Key() == tcell.KeyHome, ev.Rune() == 'g':
		v.top = 0
	case ev.Key() == tcell.KeyEnd, ev.Rune() == 'G':
		v.top = len(v.song.Frames) - 1
	}
	return true
}

func (v *viewer) scroll(delta int) {
	v.top += delta
	if v.top < 0 {
		v.top = 0
	}
	if v.top >= len(v.song.Frames) {
		v.top = len(v.song.Frames) - 1
	}
}

func (v *viewer) draw() {
	v.screen.Clear()
	_, h := v.screen.Size()

	hdr := v.song.Header
	title := fmt.Sprintf("%s  %q by %q  %d frames @ %d Hz, clock %d Hz",
		hdr.Format, hdr.Title, hdr.Author, hdr.FrameCount, hdr.FrameRate, hdr.ChipClock)
	v.print(0, 0, tcell.StyleDefault.Bold(true), title)
	v.print(0, 1, tcell.StyleDefault.Bold(true),
		"frame   toneA toneB toneC  noise  mix(t/n)  volA volB volC  envPer shape")

	rows := h - headerRows
	for row := 0; row < rows; row++ {
		idx := v.top + row
		if idx >= len(v.song.Frames) {
			break
		}
		v.print(0, headerRows-1+row, tcell.StyleDefault, formatFrame(idx, v.song.Frames[idx]))
	}

	v.print(0, h-1, tcell.StyleDefault.Reverse(true),
		fmt.Sprintf(" frame %d/%d  ↑/↓ PgUp/PgDn Home/End scroll, q quits ",
			v.top, len(v.song.Frames)))
	v.screen.Show()
}

func formatFrame(idx int, f ym.Frame) string {
	mix := func(on bool, r rune) rune {
		if on {
			return r
		}
		return '-'
	}
	shape := "  --"
	if f.ShapeWritten() {
		shape = fmt.Sprintf("0x%02X", f.EnvShape())
	}
	vol := func(voice int) string {
		if f.EnvSelected(voice) {
			return " env"
		}
		return fmt.Sprintf("%4d", f.Level(voice))
	}
	return fmt.Sprintf("%6d  %5d %5d %5d  %5d  %c%c%c/%c%c%c   %s %s %s  %6d  %s",
		idx,
		f.TonePeriod(0), f.TonePeriod(1), f.TonePeriod(2),
		f.NoisePeriod(),
		mix(f.ToneEnabled(0), 'a'), mix(f.ToneEnabled(1), 'b'), mix(f.ToneEnabled(2), 'c'),
		mix(f.NoiseEnabled(0), 'a'), mix(f.NoiseEnabled(1), 'b'), mix(f.NoiseEnabled(2), 'c'),
		vol(0), vol(1), vol(2),
		f.EnvPeriod(), shape)
}

func (v *viewer) print(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
