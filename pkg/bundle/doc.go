// Package bundle packs resolved packages into a zip archive for offline
// installation.
//
// [Plan] lists the tarballs of every visited version in a resolution
// cache; [Bundler.Write] downloads them one at a time and streams the
// archive:
//
//	lodash/registry.json
//	lodash/versions/4.17.21.tgz
//	@types/node/registry.json
//	@types/node/versions/20.11.5.tgz
//
// Tarballs are stored uncompressed since they are gzip streams already.
package bundle
