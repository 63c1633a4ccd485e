package plugin

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	styleList    = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
)

const noEntrypointsWarning = "No entrypoints from TYPO3 extensions have been picked up. Make sure that you create at least one 'Configuration/ViteEntrypoints.json' file."

// OutputDebugInformation logs the extensions, aliases and entrypoints of a
// session. Entrypoints are shown relative to the composer context.
func OutputDebugInformation(logger *log.Logger, r Report) {
	if len(r.Extensions) > 0 {
		keys := make([]string, 0, len(r.Extensions))
		for _, ext := range r.Extensions {
			keys = append(keys, ext.ExtensionKey)
		}
		logger.Info("The following extensions with vite entrypoints have been recognized: " +
			styleList.Render(strings.Join(keys, ", ")))

		if len(r.Aliases) > 0 {
			finds := make([]string, 0, len(r.Aliases))
			for _, a := range r.Aliases {
				finds = append(finds, a.Find)
			}
			logger.Info("The following aliases have been defined: " +
				styleList.Render(strings.Join(finds, ", ")))
		}
	}

	if len(r.Entrypoints) > 0 {
		list := make([]string, 0, len(r.Entrypoints))
		for _, e := range r.Entrypoints {
			list = append(list, relativeTo(r.Context.Path, e))
		}
		logger.Info("The following entrypoints will be served:\n" +
			styleList.Render("➜ "+strings.Join(list, "\n➜ ")))
	}
}

// relativeTo shortens path to be relative to root when it lies below root.
func relativeTo(root, path string) string {
	if root == "" {
		return path
	}
	prefix := strings.TrimRight(root, string(filepath.Separator)) + string(filepath.Separator)
	return strings.TrimPrefix(path, prefix)
}

func warn(logger *log.Logger, msg string) {
	logger.Warn(styleWarning.Render(msg))
}
