package main

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// defaultConfigPaths lists the YAML files read for flag defaults. Keys
// follow the command tree with dashed flag names, for example
//
//	log-level: debug
//	crawl:
//	  workers: 4
//	  rps: 2
//	  user-agent: my-crawler/1.0
func defaultConfigPaths() []string {
	return []string{
		"spider.yaml",
		filepath.Join(xdg.ConfigHome, "spider", "config.yaml"),
	}
}
