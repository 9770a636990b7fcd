package builder

import (
	"fmt"
	"os"
	"path/filepath"
)

// placeholderTpl keeps a failed export's iframe target from being a
// broken link.  The page names the notebook so the failure is
// diagnosable from the browser; the manifest still omits the entry.
const placeholderTpl = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Marimo Notebook</title>
<style>
body { font-family: system-ui, sans-serif; color: #666; display: flex;
       align-items: center; justify-content: center; height: 100vh; margin: 0; }
div { text-align: center; }
</style>
</head>
<body>
<div>
<h1>Marimo Notebook</h1>
<p>The notebook %q could not be exported for this build.</p>
</div>
</body>
</html>
`

func writePlaceholder(path, notebook string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(fmt.Sprintf(placeholderTpl, notebook)), 0644)
}
