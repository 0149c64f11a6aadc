// Package amalgamation merges a tree of C headers and sources into one header
// and one source file.
package amalgamation

import (
	"sort"
	"strings"

	"github.com/LegacyCodeHQ/amalgam/depgraph"
	"github.com/LegacyCodeHQ/amalgam/depgraph/include"
)

var stars = strings.Repeat("*", 60)

// Separator is the banner line written before each merged file.
func Separator(name string) string {
	return "/" + stars + name + stars + "/\n"
}

// AssembleHeader renders the merged header: one include line per external
// dependency in lexical order, then every record in the given order behind
// its separator.
func AssembleHeader(externals []string, ordered []depgraph.FileRecord) string {
	sorted := append([]string(nil), externals...)
	sort.Strings(sorted)

	var sb strings.Builder
	for _, name := range sorted {
		sb.WriteString(include.Declaration(name))
		sb.WriteByte('\n')
	}
	writeRecords(&sb, ordered)
	return sb.String()
}

// AssembleSource renders the merged source: an include of headerFile, then
// every source record in the order given.
func AssembleSource(headerFile string, sources []depgraph.FileRecord) string {
	var sb strings.Builder
	sb.WriteString(`#include "` + headerFile + `"`)
	sb.WriteByte('\n')
	writeRecords(&sb, sources)
	return sb.String()
}

func writeRecords(sb *strings.Builder, records []depgraph.FileRecord) {
	for _, record := range records {
		sb.WriteString(Separator(record.Name))
		sb.WriteString(record.Content)
		sb.WriteByte('\n')
	}
}
