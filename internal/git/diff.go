package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// classify maps a parsed file to its Kind. Copies are new paths and count as
// added; mode and type changes count as modified.
func classify(f *gitdiff.File) Kind {
	switch {
	case f.IsNew, f.IsCopy:
		return KindAdded
	case f.IsDelete:
		return KindDeleted
	case f.IsRename:
		return KindRenamed
	default:
		return KindModified
	}
}

// filePath is the staged path of f: the new name, or the old one for a
// deletion.
func filePath(f *gitdiff.File) string {
	if f.IsDelete {
		return f.OldName
	}
	return f.NewName
}

// addedContent rebuilds a new file's staged content from its added lines.
func addedContent(f *gitdiff.File) string {
	var b strings.Builder
	for _, frag := range f.TextFragments {
		for _, line := range frag.Lines {
			if line.Op == gitdiff.OpAdd {
				b.WriteString(line.Line)
			}
		}
	}
	return b.String()
}

// formatDiff renders f back to unified diff text for the prompt.
func formatDiff(f *gitdiff.File) string {
	oldName, newName := f.OldName, f.NewName
	if oldName == "" {
		oldName = newName
	}
	if newName == "" {
		newName = oldName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", oldName, newName)
	if f.IsRename {
		fmt.Fprintf(&b, "rename from %s\nrename to %s\n", f.OldName, f.NewName)
	}
	if len(f.TextFragments) > 0 {
		fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", oldName, newName)
	}

	for _, frag := range f.TextFragments {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@", frag.OldPosition, frag.OldLines, frag.NewPosition, frag.NewLines)
		if frag.Comment != "" {
			b.WriteString(" " + frag.Comment)
		}
		b.WriteString("\n")

		for _, line := range frag.Lines {
			b.WriteString(linePrefix(line.Op))
			b.WriteString(line.Line)
			if !strings.HasSuffix(line.Line, "\n") {
				b.WriteString("\n\\ No newline at end of file\n")
			}
		}
	}
	return b.String()
}

func linePrefix(op gitdiff.LineOp) string {
	switch op {
	case gitdiff.OpAdd:
		return "+"
	case gitdiff.OpDelete:
		return "-"
	default:
		return " "
	}
}

var binaryExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".pdf": true, ".zip": true, ".tar": true,
	".gz": true, ".tgz": true, ".bz2": true, ".xz": true, ".7z": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true,
	".o": true, ".class": true, ".jar": true, ".woff": true, ".woff2": true,
	".ttf": true, ".otf": true, ".mp3": true, ".mp4": true, ".mov": true,
	".wasm": true,
}

// hasBinaryExtension reports whether the path ends in a known binary extension.
func hasBinaryExtension(path string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(path))]
}

// looksBinary applies the content heuristic: any NUL byte means binary.
func looksBinary(content string) bool {
	return strings.IndexByte(content, 0) >= 0
}
