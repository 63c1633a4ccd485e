package plugin

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func writeFile(t *testing.T, dir, path, content string) {
	t.Helper()
	full := filepath.Join(dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func testLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}), &buf
}

// newProject creates a composer project with two installed extensions:
// "site" declares two entrypoints, "blog" declares none.
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "composer.json", `{"name": "acme/project", "type": "project"}`)
	writeFile(t, root, "vendor/composer/installed.json", `{"packages": [
		{
			"name": "acme/site",
			"type": "typo3-cms-extension",
			"install-path": "../../packages/site",
			"extra": {"typo3/cms": {"extension-key": "site"}}
		},
		{
			"name": "acme/blog",
			"type": "typo3-cms-extension",
			"install-path": "../acme/blog",
			"extra": {"typo3/cms": {"extension-key": "blog"}}
		},
		{
			"name": "acme/plain",
			"type": "typo3-cms-extension",
			"install-path": "../acme/plain",
			"extra": {"typo3/cms": {"extension-key": "plain"}}
		}
	]}`)

	writeFile(t, root, "packages/site/composer.json",
		`{"name": "acme/site", "type": "typo3-cms-extension", "extra": {"typo3/cms": {"extension-key": "site"}}}`)
	writeFile(t, root, "packages/site/Configuration/ViteEntrypoints.json",
		`["../Resources/Private/JavaScript/*.entry.js"]`)
	writeFile(t, root, "packages/site/Resources/Private/JavaScript/Main.entry.js", `console.log("main")`)
	writeFile(t, root, "packages/site/Resources/Private/JavaScript/Alt.entry.js", `console.log("alt")`)
	writeFile(t, root, "packages/site/Resources/Private/JavaScript/util.js", ``)

	writeFile(t, root, "vendor/acme/blog/Configuration/ViteEntrypoints.json", `[]`)
	writeFile(t, root, "vendor/acme/plain/composer.json", `{"type": "typo3-cms-extension"}`)
	return root
}
