// Package view renders the console page with gin's HTML renderer.
package view

import (
	"embed"
	"html/template"

	"usertable/internal/domain/notification"
	"usertable/internal/i18n"
	"usertable/internal/usecase/usertable"
)

// ConsoleTemplate is the name of the page template.
const ConsoleTemplate = "console.html"

// maxPageLinks bounds the pagination control to a window around the current page.
const maxPageLinks = 10

//go:embed templates/*.html
var templates embed.FS

// ColumnHeader is one sortable table header.
type ColumnHeader struct {
	Column usertable.Column
	Label  string // message key
	Order  usertable.SortOrder
	Next   usertable.SortOrder
}

// Page is the data the console template renders.
type Page struct {
	Lang    string
	View    usertable.View
	Toasts  []notification.Notification
	Columns []ColumnHeader
	Pages   []int64
}

var columnLabels = map[usertable.Column]string{
	usertable.ColumnID:        i18n.ColumnID,
	usertable.ColumnEmail:     i18n.ColumnEmail,
	usertable.ColumnFirstName: i18n.ColumnFirstName,
	usertable.ColumnLastName:  i18n.ColumnLastName,
}

// NewPage builds the template data for v.
func NewPage(tr *i18n.Translator, v usertable.View, toasts []notification.Notification) Page {
	headers := make([]ColumnHeader, len(usertable.Columns))
	for i, col := range usertable.Columns {
		var order usertable.SortOrder
		if v.Sort.Column == col {
			order = v.Sort.Order
		}
		headers[i] = ColumnHeader{
			Column: col,
			Label:  columnLabels[col],
			Order:  order,
			Next:   order.Next(),
		}
	}

	return Page{
		Lang:    tr.Tag().String(),
		View:    v,
		Toasts:  toasts,
		Columns: headers,
		Pages:   pageWindow(v.Page, v.PageCount),
	}
}

// pageWindow returns at most maxPageLinks page numbers centred on current.
// Page 1 is always offered so a failed first load can be retried.
func pageWindow(current, count int64) []int64 {
	count = max(count, 1)
	current = min(max(current, 1), count)

	first := max(current-maxPageLinks/2, 1)
	last := min(first+maxPageLinks-1, count)
	first = max(last-maxPageLinks+1, 1)

	pages := make([]int64, 0, last-first+1)
	for p := first; p <= last; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Load parses the embedded templates with tr bound as the "t" function.
func Load(tr *i18n.Translator) (*template.Template, error) {
	funcs := template.FuncMap{
		"t": tr.T,
		"arrow": func(o usertable.SortOrder) string {
			switch o {
			case usertable.SortAscend:
				return "▲"
			case usertable.SortDescend:
				return "▼"
			default:
				return ""
			}
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templates, "templates/*.html")
}
