package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixture page file names.
const (
	DragAndDropPage      = "dragAndDropTest.html"
	IframePage           = "iframes.html"
	IframeAtBottomPage   = "iframeAtBottom.html"
	ScrolledDivPage      = "dragAndDropInsideScrolledDiv.html"
	DroppableItemsPage   = "droppableItems.html"
	DragDropOverflowPage = "dragDropOverflow.html"
)

//go:embed pages
var pagesFS embed.FS

// Page describes one fixture file.
type Page struct {
	File  string `yaml:"file"`
	Title string `yaml:"title"`
}

// Manifest lists the embedded files the server exposes. Pages appear on
// the index; assets are only served.
type Manifest struct {
	Pages  []Page `yaml:"pages"`
	Assets []Page `yaml:"assets"`
}

// LoadManifest parses the embedded pages.yaml and checks every entry
// refers to an embedded file.
func LoadManifest() (*Manifest, error) {
	raw, err := pagesFS.ReadFile("pages/pages.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return parseManifest(raw)
}

func parseManifest(raw []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if len(m.Pages) == 0 {
		return nil, fmt.Errorf("manifest lists no pages")
	}
	for _, p := range append(append([]Page{}, m.Pages...), m.Assets...) {
		if p.File == "" || strings.Contains(p.File, "/") {
			return nil, fmt.Errorf("invalid manifest entry %q", p.File)
		}
		if _, err := fs.Stat(pagesFS, "pages/"+p.File); err != nil {
			return nil, fmt.Errorf("manifest entry %q: %w", p.File, err)
		}
	}
	return &m, nil
}

// Has reports whether file is listed as a page or asset.
func (m *Manifest) Has(file string) bool {
	for _, p := range m.Pages {
		if p.File == file {
			return true
		}
	}
	for _, a := range m.Assets {
		if a.File == file {
			return true
		}
	}
	return false
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>Drag and Drop Fixtures</title></head>
<body>
<h1>Drag and Drop Fixtures</h1>
<ul>
{{range .Pages}}<li><a href="{{.File}}">{{.Title}}</a></li>
{{end}}</ul>
</body>
</html>
`))

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTemplate.Execute(w, s.manifest); err != nil {
			s.log.WithError(err).Error("failed to render index")
		}
		return
	}

	if !s.manifest.Has(name) {
		http.NotFound(w, r)
		return
	}
	body, err := pagesFS.ReadFile("pages/" + name)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Cache-Control", "no-store")
	w.Write(body)
}
