// Package web - серверные HTML-страницы портала.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"fitness-portal/internal/dto"
	"fitness-portal/internal/navigation"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "layout.html"

// Renderer - echo.Renderer поверх встроенных шаблонов. Каждая страница
// собирается как layout.html + свой файл.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := path.Base(file)
		if name == layoutFile {
			continue
		}
		tpl, err := template.New(layoutFile).Funcs(funcs).ParseFS(templatesFS, "templates/"+layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("шаблон %s: %w", name, err)
		}
		pages[strings.TrimSuffix(name, ".html")] = tpl
	}
	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("шаблон %q не найден", name)
	}
	return tpl.ExecuteTemplate(w, layoutFile, data)
}

// Has - есть ли страница с таким именем.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"value": func(values map[string]string, key string) string {
		return values[key]
	},
	"checked": func(values map[string]string, key string) bool {
		b, _ := strconv.ParseBool(values[key])
		return b
	},
	"pageURL": func(base, search string, page, perPage int) string {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		if perPage > 0 {
			q.Set("per_page", strconv.Itoa(perPage))
		}
		if search != "" {
			q.Set("search", search)
		}
		return base + "?" + q.Encode()
	},
	"vnd":      dto.FormatVND,
	"days":     dto.FormatDays,
	"sessions": dto.FormatSessions,
	"yesno":    dto.FormatBool,
	"navURL": func(current, action string) string {
		return current + "?nav=" + url.QueryEscape(action)
	},
	"isBackOffice": func(role string) bool {
		return navigation.Prefix(role) != ""
	},
}
