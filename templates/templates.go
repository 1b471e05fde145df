package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Masterminds/sprig/v3"
)

const (
	IndexPage = "index.html"
	PostPage  = "post.html"
)

const layoutFile = "pages/layout.html"

//go:embed pages/*.html
var pagesFS embed.FS

// PageData holds the data passed to every page. Content is page specific.
type PageData struct {
	Title     string
	PageTitle string
	Content   interface{}
}

// Set is a parsed layout per page, keyed by page file name.
type Set struct {
	pages map[string]*template.Template
}

// Parse builds each page on top of its own copy of the layout, since every
// page defines "content".
func Parse() (*Set, error) {
	base, err := template.New("layout.html").Funcs(sprig.FuncMap()).ParseFS(pagesFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("error parsing layout template: %v", err)
	}

	set := &Set{pages: map[string]*template.Template{}}
	for _, page := range []string{IndexPage, PostPage} {
		layout, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("error cloning layout for %s: %v", page, err)
		}

		tmpl, err := layout.ParseFS(pagesFS, "pages/"+page)
		if err != nil {
			return nil, fmt.Errorf("error parsing template %s: %v", page, err)
		}
		set.pages[page] = tmpl
	}

	return set, nil
}

func MustParse() *Set {
	set, err := Parse()
	if err != nil {
		panic(err)
	}
	return set
}

func (s *Set) Render(w io.Writer, page string, data PageData) error {
	tmpl, ok := s.pages[page]
	if !ok {
		return fmt.Errorf("unknown page template: %s", page)
	}

	return tmpl.ExecuteTemplate(w, "layout.html", data)
}
