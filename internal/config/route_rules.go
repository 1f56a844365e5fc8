package config

import (
	"fmt"
	"strings"
)

// RouteRules configures which paths the route guard treats as public and
// which it never intercepts
type RouteRules struct {
	LoginPath        string   `yaml:"login_path"`
	RootPath         string   `yaml:"root_path"`
	PublicPaths      []string `yaml:"public_paths"`
	ExcludedPrefixes []string `yaml:"excluded_prefixes"`
}

func (r *RouteRules) applyDefaults() {
	if r.LoginPath == "" {
		r.LoginPath = "/login"
	}
	if r.RootPath == "" {
		r.RootPath = "/"
	}
	if len(r.PublicPaths) == 0 {
		r.PublicPaths = []string{r.LoginPath}
	}
	if len(r.ExcludedPrefixes) == 0 {
		r.ExcludedPrefixes = []string{"/static/", "/api", "/favicon.ico", "/health"}
	}
}

// Validate checks that every configured path is absolute and that the
// login page is public
func (r RouteRules) Validate() error {
	paths := append([]string{r.LoginPath, r.RootPath}, r.PublicPaths...)
	paths = append(paths, r.ExcludedPrefixes...)
	for _, p := range paths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("route rule %q must start with /", p)
		}
	}

	for _, p := range r.PublicPaths {
		if p == r.LoginPath {
			return nil
		}
	}
	return fmt.Errorf("login path %q must be listed in public_paths", r.LoginPath)
}
