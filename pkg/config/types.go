// Package config contains the configuration surface for the
// marimo-embed pipeline.  All keys are optional and carry documented
// defaults so that a site with a notebooks/ directory builds with no
// configuration file at all.
package config

// GalleryConfig describes the gallery collaborator's layout.  Its
// presence in a Config is the capability signal that enables the
// gallery bridge.
type GalleryConfig struct {
	// DownloadsDir is where the gallery collaborator deposits
	// generated notebook files, relative to the output root.
	DownloadsDir string `json:"downloads_dir" yaml:"downloads_dir"`

	// GalleryDirs are the document roots of generated example
	// pages, relative to the output root.
	GalleryDirs []string `json:"gallery_dirs" yaml:"gallery_dirs"`
}

// Config is the full configuration for a site build.
type Config struct {
	// NotebookDir holds directly-embedded notebook sources,
	// relative to the site source directory.
	NotebookDir string `json:"notebook_dir" yaml:"notebook_dir"`

	// BuildDir is scratch space for intermediate conversion
	// artifacts, relative to the output root.
	BuildDir string `json:"build_dir" yaml:"build_dir"`

	// OutputDir receives exported bundles and client assets,
	// relative to the output root.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	DefaultHeight string `json:"default_height" yaml:"default_height"`
	DefaultWidth  string `json:"default_width" yaml:"default_width"`
	DefaultTheme  string `json:"default_theme" yaml:"default_theme"`
	DefaultClass  string `json:"default_class" yaml:"default_class"`

	// FooterButton and SidebarButton independently control launcher
	// injection points on gallery pages.
	FooterButton  bool   `json:"footer_button" yaml:"footer_button"`
	SidebarButton bool   `json:"sidebar_button" yaml:"sidebar_button"`
	ButtonText    string `json:"button_text" yaml:"button_text"`

	// PrependMarkdown is inserted as the first cell of every
	// gallery notebook before export.
	PrependMarkdown string `json:"prepend_markdown" yaml:"prepend_markdown"`

	// PrependFromPage derives the prepended markdown from the
	// example page's own description when PrependMarkdown is unset.
	PrependFromPage bool `json:"prepend_from_page" yaml:"prepend_from_page"`

	// MoveImportsToTop reorders marimo import cells ahead of other
	// cells in gallery notebooks before export.
	MoveImportsToTop bool `json:"move_imports_to_top" yaml:"move_imports_to_top"`

	Gallery *GalleryConfig `json:"gallery,omitempty" yaml:"gallery,omitempty"`
}

// Default returns a config populated with the documented defaults.
func Default() *Config {
	return &Config{
		NotebookDir:   "notebooks",
		BuildDir:      "_build/marimo",
		OutputDir:     "_static/marimo",
		DefaultHeight: "600px",
		DefaultWidth:  "100%",
		DefaultTheme:  "light",
		DefaultClass:  "marimo-embed",
		FooterButton:  true,
		SidebarButton: true,
		ButtonText:    "Open in marimo",
	}
}

// GalleryActive reports whether the gallery collaborator has been
// configured for this site.  This is the capability query the bridge
// consults; it never errors, absence simply means inactive.
func (c *Config) GalleryActive() bool {
	return c.Gallery != nil && len(c.Gallery.GalleryDirs) > 0
}
