package gallery

// Descriptor ties a gallery-generated page to its exported notebook.
// Descriptors exist only at build time; the browser recovers the
// association from the page URL and the metadata the build injects.
type Descriptor struct {
	// PagePath is the built page, relative to the output root.
	PagePath string

	// NotebookName is the exported bundle identifier.
	NotebookName string

	// NotebookURL is the bundle location, relative to the site
	// root.
	NotebookURL string
}

// PageInfo is the metadata injected into a built gallery page for the
// client-side launcher.
type PageInfo struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	ButtonText    string `json:"buttonText"`
	FooterButton  bool   `json:"footerButton"`
	SidebarButton bool   `json:"sidebarButton"`
}

// galleryManifest is the namespaced lookup written alongside gallery
// bundles, kept separate from the main manifest to avoid name
// collisions with directly-embedded notebooks.
type galleryManifest struct {
	GalleryNotebooks map[string]string `json:"gallery_notebooks"`
	TotalCount       int               `json:"total_count"`
}
