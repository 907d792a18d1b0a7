package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// Inspector collects the staged ChangeSet from a Source.
type Inspector struct {
	Source Source
	// ContentBudget bounds new-file bodies (bytes). Zero uses DefaultContentBudget.
	ContentBudget int
	// DiffBudget bounds diff bodies (bytes). Zero uses DefaultDiffBudget.
	DiffBudget int
}

// NewInspector returns an Inspector with default budgets.
func NewInspector(src Source) *Inspector {
	return &Inspector{Source: src}
}

// Collect returns one StagedChange per staged path, in diff order.
// It fails with ErrNotRepository outside a repository and ErrNoStagedChanges
// when the index matches HEAD.
func (in *Inspector) Collect(ctx context.Context) (*ChangeSet, error) {
	if _, err := in.Source.Root(ctx); err != nil {
		return nil, err
	}

	raw, err := in.Source.StagedDiff(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading staged diff: %w", err)
	}
	files, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing staged diff: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoStagedChanges
	}

	cs := &ChangeSet{Changes: make([]StagedChange, 0, len(files))}
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		path := filePath(f)
		if seen[path] {
			continue
		}
		seen[path] = true
		cs.Changes = append(cs.Changes, in.inspect(f))
	}

	stat, err := in.Source.StatSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading stat summary: %w", err)
	}
	cs.Stat = stat

	logDebug("[git] Collect: %d staged paths, stat %q", len(cs.Changes), cs.Stat)
	return cs, nil
}

// inspect fills in the kind and body of a single staged file.
func (in *Inspector) inspect(f *gitdiff.File) StagedChange {
	kind := classify(f)
	change := StagedChange{
		Path:   filePath(f),
		Kind:   kind,
		Status: kind,
	}
	if kind == KindRenamed {
		change.RenameFrom = f.OldName
	}

	if kind == KindDeleted {
		return change
	}
	if f.IsBinary || hasBinaryExtension(change.Path) {
		return skipBinary(change)
	}

	var body string
	var budget int
	if kind == KindAdded && f.IsNew {
		body = addedContent(f)
		budget = budgetOr(in.ContentBudget, DefaultContentBudget)
	} else {
		body = formatDiff(f)
		budget = budgetOr(in.DiffBudget, DefaultDiffBudget)
	}

	if looksBinary(body) {
		return skipBinary(change)
	}

	change.Content, change.Truncated = Truncate(body, budget)
	return change
}

func skipBinary(c StagedChange) StagedChange {
	logDebug("[git] skipping binary file %s", c.Path)
	c.Kind = KindBinarySkipped
	c.Content = ""
	c.Truncated = false
	return c
}

func budgetOr(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
