package plugin

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/matzehuels/typo3vite/pkg/composer"
	"github.com/matzehuels/typo3vite/pkg/vite"
)

// DDEVHostnameEnv lists the host names of a DDEV container, comma separated.
const DDEVHostnameEnv = "DDEV_HOSTNAME"

// Origins the dev server answers cross-origin requests from: localhost in
// all of its spellings and DDEV sites. Written as JavaScript regular
// expressions.
var defaultCorsOrigins = []string{
	`/^https?:\/\/(?:(?:[^:]+\.)?localhost|127\.0\.0\.1|\[::1\])(?::\d+)?$/`,
	`/^https?:\/\/(?:[^:]+\.)?ddev\.site(?::\d+)?$/`,
}

// watchIgnored lists TYPO3 directories that change at runtime and must not
// trigger reloads of the dev server.
func watchIgnored(project composer.Context) []string {
	web := "**/"
	if dir := strings.Trim(path.Clean("/"+filepath.ToSlash(project.WebDir)), "/"); dir != "" {
		web += dir + "/"
	}
	return []string{
		"**/var/**",
		"**/.Build/**",
		web + "_assets/**",
		web + "typo3temp/**",
		web + "fileadmin/**",
	}
}

// applyServerDefaults restricts the dev server of a project setup.
func applyServerDefaults(cfg *vite.UserConfig, project composer.Context) {
	server := cfg.EnsureServer()

	watch := server.EnsureWatch()
	if watch.Ignored == nil {
		ignored := vite.StringList(watchIgnored(project))
		watch.Ignored = &ignored
	}

	if server.Cors == nil {
		server.Cors = &vite.CorsOptions{}
	}
	if server.Cors.Enabled == nil && server.Cors.Origin == nil {
		server.Cors.Origin = &vite.Origin{List: append([]string(nil), defaultCorsOrigins...)}
	}

	if hosts := ddevHostnames(); len(hosts) > 0 {
		if server.AllowedHosts == nil {
			server.AllowedHosts = &vite.HostList{}
		}
		if !server.AllowedHosts.All {
			server.AllowedHosts.Hosts = append(server.AllowedHosts.Hosts, hosts...)
		}
	}
}

func ddevHostnames() []string {
	var hosts []string
	for _, h := range strings.Split(os.Getenv(DDEVHostnameEnv), ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
