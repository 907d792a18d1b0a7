package summarize

import (
	"fmt"
	"strings"

	"github.com/obsoletenerd/changeblogger/internal/git"
)

// DefaultPromptBudget bounds the total size of file bodies embedded in one prompt.
const DefaultPromptBudget = 12000

// SystemPrompt instructs the model on tone and response shape.
const SystemPrompt = `You are a code analyst. Analyze Git changes and provide a concise summary focusing on:

1. For new files: what they do and their purpose
2. For modified files: what functions or sections changed and what the changes accomplish
3. Overall impact of the changes

Keep the summary brief (2-4 sentences) and technical but accessible.
Reply with plain prose only: no headings, no lists, no code blocks.`

var kindOrder = []git.Kind{
	git.KindAdded,
	git.KindModified,
	git.KindRenamed,
	git.KindDeleted,
	git.KindBinarySkipped,
}

// BuildPrompt formats the ChangeSet for the model. It lists every path grouped
// by kind, then embeds file bodies until maxBytes of body text is reached.
// Binary and deleted entries never contribute a body.
func BuildPrompt(cs *git.ChangeSet, maxBytes int) string {
	if maxBytes <= 0 {
		maxBytes = DefaultPromptBudget
	}

	var b strings.Builder
	b.WriteString("Please analyze the following Git changes.\n\n")

	b.WriteString("Files by change type:\n")
	for _, kind := range kindOrder {
		var paths []string
		for _, c := range cs.Changes {
			if c.Kind == kind {
				paths = append(paths, c.DisplayPath())
			}
		}
		if len(paths) > 0 {
			fmt.Fprintf(&b, "- %s: %s\n", kind, strings.Join(paths, ", "))
		}
	}

	if cs.Stat != "" {
		fmt.Fprintf(&b, "\nStat: %s\n", cs.Stat)
	}

	used := 0
	omitted := 0
	for _, c := range cs.Changes {
		if c.Content == "" || c.Kind == git.KindBinarySkipped || c.Kind == git.KindDeleted {
			continue
		}
		if used+len(c.Content) > maxBytes {
			omitted++
			continue
		}
		used += len(c.Content)

		fmt.Fprintf(&b, "\n### %s (%s)\n", c.DisplayPath(), c.Kind)
		fence := "```diff"
		if c.Kind == git.KindAdded {
			fence = "```"
		}
		b.WriteString(fence + "\n")
		b.WriteString(strings.TrimRight(c.Content, "\n"))
		b.WriteString("\n```\n")
	}

	if omitted > 0 {
		fmt.Fprintf(&b, "\n(%d more files omitted)\n", omitted)
	}

	return b.String()
}
