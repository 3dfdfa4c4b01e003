package route

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed routes.yaml
var defaultRoutes []byte

// Meta menu metadata of a route
type Meta struct {
	Title      string   `yaml:"title" json:"title"`
	Icon       string   `yaml:"icon,omitempty" json:"icon,omitempty"`
	HideInMenu bool     `yaml:"hideInMenu,omitempty" json:"hideInMenu,omitempty"`
	ParentKeys []string `yaml:"parentKeys,omitempty" json:"parentKeys,omitempty"`
}

// Route one navigable node
type Route struct {
	Path      string   `yaml:"path" json:"path"`
	Name      string   `yaml:"name,omitempty" json:"name,omitempty"`
	Redirect  string   `yaml:"redirect,omitempty" json:"redirect,omitempty"`
	Component string   `yaml:"component,omitempty" json:"component,omitempty"`
	Meta      Meta     `yaml:"meta" json:"meta"`
	Children  []*Route `yaml:"children,omitempty" json:"children,omitempty"`
}

type document struct {
	Version int      `yaml:"version"`
	Routes  []*Route `yaml:"routes"`
}

// Table a validated route tree
type Table struct {
	version int
	roots   []*Route
	byPath  map[string]*Route
	parent  map[string]*Route
}

// MenuItem sidebar entry
type MenuItem struct {
	Path     string     `json:"path"`
	Name     string     `json:"name,omitempty"`
	Title    string     `json:"title"`
	Icon     string     `json:"icon,omitempty"`
	Children []MenuItem `json:"children,omitempty"`
}

// Crumb breadcrumb entry
type Crumb struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// Load decodes and validates a route document. Every problem found is
// reported, joined into one error.
func Load(data []byte) (*Table, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	if doc.Version <= 0 {
		return nil, errors.New("routes: version is required")
	}

	t := &Table{
		version: doc.Version,
		roots:   doc.Routes,
		byPath:  make(map[string]*Route),
		parent:  make(map[string]*Route),
	}
	if err := t.index(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadFile loads a route document from disk
func LoadFile(name string) (*Table, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read routes: %w", err)
	}
	return Load(data)
}

// Default returns the embedded route table
func Default() (*Table, error) {
	return Load(defaultRoutes)
}

// MustDefault returns the embedded route table and panics if it is invalid
func MustDefault() *Table {
	t, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded routes: %v", err))
	}
	return t
}

func (t *Table) index() error {
	var errs []error
	names := make(map[string]string)

	var visit func(parent *Route, nodes []*Route, loc string)
	visit = func(parent *Route, nodes []*Route, loc string) {
		for i, r := range nodes {
			at := fmt.Sprintf("%s[%d]", loc, i)
			if r == nil {
				errs = append(errs, fmt.Errorf("%s: empty route", at))
				continue
			}
			if r.Path == "" {
				errs = append(errs, fmt.Errorf("%s: path is required", at))
				continue
			}
			if parent != nil && !strings.HasPrefix(r.Path, "/") {
				r.Path = path.Join(parent.Path, r.Path)
			}

			if _, dup := t.byPath[r.Path]; dup {
				errs = append(errs, fmt.Errorf("%s: duplicate path %q", at, r.Path))
			} else {
				t.byPath[r.Path] = r
				if parent != nil {
					t.parent[r.Path] = parent
				}
			}
			if r.Name != "" {
				if other, dup := names[r.Name]; dup {
					errs = append(errs, fmt.Errorf("%s: duplicate name %q (also on %s)", at, r.Name, other))
				} else {
					names[r.Name] = r.Path
				}
			}
			visit(r, r.Children, at+".children")
		}
	}
	visit(nil, t.roots, "routes")

	// references need the full index
	_ = t.walk(func(r *Route, _ int) error {
		if r.Redirect != "" {
			if _, ok := t.match(r.Redirect); !ok {
				errs = append(errs, fmt.Errorf("%s: redirect target %q does not exist", r.Path, r.Redirect))
			}
		}
		if len(r.Meta.ParentKeys) > 0 {
			ancestors := make(map[string]bool)
			for _, a := range t.ancestors(r.Path) {
				ancestors[a.Path] = true
			}
			for _, key := range r.Meta.ParentKeys {
				if !ancestors[key] {
					errs = append(errs, fmt.Errorf("%s: parentKey %q is not an ancestor", r.Path, key))
				}
			}
		}
		return nil
	})

	return errors.Join(errs...)
}

// Version of the loaded document
func (t *Table) Version() int {
	return t.version
}

// Routes returns the root nodes
func (t *Table) Routes() []*Route {
	return t.roots
}

// Lookup finds the route for a concrete path; :param segments match any
// single segment.
func (t *Table) Lookup(p string) (*Route, bool) {
	return t.match(p)
}

func (t *Table) match(p string) (*Route, bool) {
	if r, ok := t.byPath[p]; ok {
		return r, true
	}
	segs := strings.Split(strings.Trim(p, "/"), "/")
	var found *Route
	_ = t.walk(func(r *Route, _ int) error {
		if found == nil && strings.Contains(r.Path, "/:") && segmentsMatch(r.Path, segs) {
			found = r
		}
		return nil
	})
	return found, found != nil
}

func segmentsMatch(pattern string, segs []string) bool {
	parts := strings.Split(strings.Trim(pattern, "/"), "/")
	if len(parts) != len(segs) {
		return false
	}
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			if segs[i] == "" {
				return false
			}
			continue
		}
		if part != segs[i] {
			return false
		}
	}
	return true
}

// ancestors returns the ancestors of the route at p, root first
func (t *Table) ancestors(p string) []*Route {
	var chain []*Route
	for parent := t.parent[p]; parent != nil; parent = t.parent[parent.Path] {
		chain = append([]*Route{parent}, chain...)
	}
	return chain
}

// Menu returns the sidebar tree with hidden routes pruned
func (t *Table) Menu() []MenuItem {
	return menuOf(t.roots)
}

func menuOf(routes []*Route) []MenuItem {
	var items []MenuItem
	for _, r := range routes {
		if r.Meta.HideInMenu {
			continue
		}
		items = append(items, MenuItem{
			Path:     r.Path,
			Name:     r.Name,
			Title:    r.Meta.Title,
			Icon:     r.Meta.Icon,
			Children: menuOf(r.Children),
		})
	}
	return items
}

// Breadcrumb returns the titles from the root down to the route at p
func (t *Table) Breadcrumb(p string) ([]Crumb, bool) {
	r, ok := t.match(p)
	if !ok {
		return nil, false
	}
	var crumbs []Crumb
	for _, a := range t.ancestors(r.Path) {
		crumbs = append(crumbs, Crumb{Path: a.Path, Title: a.Meta.Title})
	}
	return append(crumbs, Crumb{Path: r.Path, Title: r.Meta.Title}), true
}

// ActiveKeys returns the menu keys to highlight for p: parentKeys when the
// route sets them, its ancestors otherwise.
func (t *Table) ActiveKeys(p string) []string {
	r, ok := t.match(p)
	if !ok {
		return nil
	}
	if len(r.Meta.ParentKeys) > 0 {
		return append([]string(nil), r.Meta.ParentKeys...)
	}
	keys := []string{}
	for _, a := range t.ancestors(r.Path) {
		keys = append(keys, a.Path)
	}
	return keys
}

// Walk visits every route depth first. A non-nil error from fn stops the walk.
func (t *Table) Walk(fn func(r *Route, depth int) error) error {
	return t.walk(fn)
}

func (t *Table) walk(fn func(r *Route, depth int) error) error {
	var visit func(nodes []*Route, depth int) error
	visit = func(nodes []*Route, depth int) error {
		for _, r := range nodes {
			if r == nil || r.Path == "" {
				continue
			}
			if err := fn(r, depth); err != nil {
				return err
			}
			if err := visit(r.Children, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(t.roots, 0)
}
