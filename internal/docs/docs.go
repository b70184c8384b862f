// Package docs embeds the short guides shown by `handla docs`.
package docs

import (
	"bufio"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed content/*.md
var contentFS embed.FS

// Topic is one guide. Title is the first markdown heading of its body.
type Topic struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Topics lists every guide, sorted by name.
func Topics() []Topic {
	files, _ := fs.Glob(contentFS, "content/*.md")
	out := make([]Topic, 0, len(files))
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".md")
		body, _ := contentFS.ReadFile(f)
		out = append(out, Topic{Name: name, Title: title(string(body), name)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns the markdown of a guide. Names are case-insensitive and never contain a path.
func Get(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return "", false
	}
	b, err := contentFS.ReadFile("content/" + name + ".md")
	if err != nil {
		return "", false
	}
	return string(b), true
}

func title(md, fallback string) string {
	sc := bufio.NewScanner(strings.NewReader(md))
	for sc.Scan() {
		if h, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), "# "); ok {
			return strings.TrimSpace(h)
		}
	}
	return fallback
}
