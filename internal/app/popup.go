package app

import (
	"github.com/gdamore/tcell/v2"
)

const maxPopupInput = 4096

// PopupInput shows a modal input box with prompt and initial text and runs its
// own event loop until Enter (returns the text and true) or Esc (returns "" and
// false). When hint is not nil its result for the current text is shown on a
// second line and refreshed on every key.
func (a *App) PopupInput(s tcell.Screen, prompt, initial string, hint func(string) string) (string, bool) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorReset)
	hintStyle := style.Foreground(tcell.ColorYellow)

	p := &popup{prompt: []rune(prompt), buf: []rune(initial)}
	p.pos = len(p.buf)
	p.height = 3
	if hint != nil {
		p.height = 4
	}
	p.layout(s)

	redraw := func() {
		a.Draw(s)
		p.draw(s, style)
		if hint != nil {
			a.printTextFixedWidth(s, p.left+2, p.top+2, hint(string(p.buf)), hintStyle, p.width-4)
		}
		s.Show()
	}
	redraw()

	for {
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEsc:
				s.HideCursor()
				a.Draw(s)
				return "", false
			case tcell.KeyEnter:
				s.HideCursor()
				a.Draw(s)
				return string(p.buf), true
			default:
				p.edit(ev)
			}
		case *tcell.EventResize:
			s.Sync()
			p.layout(s)
		case nil:
			// screen finalized
			return "", false
		}
		redraw()
	}
}

type popup struct {
	prompt []rune
	buf    []rune
	pos    int

	left, top, width, height int
}

func (p *popup) layout(s tcell.Screen) {
	w, h := s.Size()
	content := max(30, len(p.prompt)+len(p.buf)+2)
	content = min(content, w-4)
	p.width = content + 4
	p.left = (w - p.width) / 2
	p.top = (h - p.height) / 2
}

func (p *popup) edit(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if p.pos > 0 {
			p.buf = append(p.buf[:p.pos-1], p.buf[p.pos:]...)
			p.pos--
		}
	case tcell.KeyDelete:
		if p.pos < len(p.buf) {
			p.buf = append(p.buf[:p.pos], p.buf[p.pos+1:]...)
		}
	case tcell.KeyLeft:
		p.pos = max(0, p.pos-1)
	case tcell.KeyRight:
		p.pos = min(len(p.buf), p.pos+1)
	case tcell.KeyHome:
		p.pos = 0
	case tcell.KeyEnd:
		p.pos = len(p.buf)
	case tcell.KeyRune:
		if len(p.buf) < maxPopupInput {
			p.buf = append(p.buf[:p.pos], append([]rune{ev.Rune()}, p.buf[p.pos:]...)...)
			p.pos++
		}
	}
}

// draw renders the box with the visible window of the input and places the
// terminal cursor at the edit position.
func (p *popup) draw(s tcell.Screen, style tcell.Style) {
	for y := p.top; y < p.top+p.height; y++ {
		for x := p.left; x < p.left+p.width; x++ {
			s.SetContent(x, y, ' ', nil, style)
		}
	}
	drawBorder(s, p.left, p.top, p.width, p.height, style)

	x, y := p.left+2, p.top+1
	for i, r := range p.prompt {
		s.SetContent(x+i, y, r, nil, style)
	}
	x += len(p.prompt) + 1

	field := max(1, p.width-4-len(p.prompt))
	start := 0
	if len(p.buf) > field && p.pos > field {
		start = p.pos - field
	}
	end := min(len(p.buf), start+field)
	for i, r := range p.buf[start:end] {
		s.SetContent(x+i, y, r, nil, style)
	}

	s.ShowCursor(max(p.left+1, x+p.pos-start), y)
}
