package mime

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// byExt refines a sniffed text/plain for the text formats the ingest pipeline
// parses differently.
var byExt = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".csv":      "text/csv",
	".tsv":      "text/tab-separated-values",
	".json":     "application/json",
	".xml":      "application/xml",
	".html":     "text/html",
	".htm":      "text/html",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".rst":      "text/x-rst",
}

// Detect sniffs content, then uses the file extension to tell plain-text formats apart.
// Charset parameters of the sniffed type are kept.
func Detect(content []byte, filename string) string {
	sniffed := mimetype.Detect(content).String()
	if !strings.HasPrefix(sniffed, "text/plain") {
		return sniffed
	}
	if refined, ok := byExt[strings.ToLower(filepath.Ext(filename))]; ok {
		return strings.Replace(sniffed, "text/plain", refined, 1)
	}
	return sniffed
}
