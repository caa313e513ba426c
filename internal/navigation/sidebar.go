// Package navigation - боковое меню back-office: состояние открытия по ширине
// экрана и набор ссылок по роли пользователя.
package navigation

import (
	"net/http"
	"strconv"
	"strings"
)

// Breakpoint - ширина (px), начиная с которой меню показывается постоянно.
const Breakpoint = 992

// Sidebar - состояние меню. Overlay - затемняющая подложка на мобильных.
type Sidebar struct {
	Open    bool
	Overlay bool
}

// Mount задает состояние при первом показе страницы.
func (s *Sidebar) Mount(width int) { s.Resize(width) }

// Resize пересчитывает оба флага по ширине экрана.
func (s *Sidebar) Resize(width int) {
	if width < Breakpoint {
		s.Open, s.Overlay = false, true
		return
	}
	s.Open, s.Overlay = true, false
}

func (s *Sidebar) Toggle() { s.Open = !s.Open }

func (s *Sidebar) Close() { s.Open = false }

// ViewportWidth - ширина экрана из client hints или параметра vw; 0, если неизвестна.
func ViewportWidth(r *http.Request) int {
	for _, raw := range []string{
		r.Header.Get("Sec-CH-Viewport-Width"),
		r.Header.Get("Viewport-Width"),
		r.URL.Query().Get("vw"),
	} {
		if w, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && w > 0 {
			return w
		}
	}
	return 0
}

// SidebarFor строит меню для запроса. Неизвестная ширина считается десктопом,
// параметр nav=toggle|close применяется после монтирования.
func SidebarFor(r *http.Request) Sidebar {
	width := ViewportWidth(r)
	if width == 0 {
		width = Breakpoint
	}
	var s Sidebar
	s.Mount(width)
	switch r.URL.Query().Get("nav") {
	case "toggle":
		s.Toggle()
	case "close":
		s.Close()
	}
	return s
}
