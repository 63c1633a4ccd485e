// Package composer reads Composer metadata of a TYPO3 installation.
//
// It knows three kinds of files:
//
//   - composer.json: the per-directory package manifest. NewContext classifies
//     it as a project, a TYPO3 extension or a plain library.
//   - vendor/composer/installed.json: the installed-package index written by
//     "composer install". ResolveExtensions reads it to find every installed
//     TYPO3 extension that ships a Vite entrypoint declaration.
//   - the entrypoint declaration itself, which is only checked for existence
//     here; see package entrypoint for its contents.
//
// # Package chain
//
// CollectChain walks from a directory towards the filesystem root and
// collects every composer.json it passes, nearest first. The walk ends at the
// first project manifest, so a chain holds at most one project and it is
// always the last element:
//
//	chain, err := composer.CollectChain("/var/www/html/packages/sitepackage")
//	if err != nil {
//	    return err
//	}
//	project, ok := chain.Find(composer.TypeProject)
//
// All reads are synchronous and nothing is cached; every call sees the
// current state of the filesystem.
package composer
