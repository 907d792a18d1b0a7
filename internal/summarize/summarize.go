// Package summarize turns a staged ChangeSet into a narrative summary by calling
// the OpenAI chat completions API once.
package summarize

import (
	"context"

	"github.com/obsoletenerd/changeblogger/internal/git"
)

// Result is the structured summary of a ChangeSet.
type Result struct {
	Narrative string
	Added     []string
	Modified  []string
	Deleted   []string
	Renamed   []string
	Stat      string
}

// Summarizer produces a Result for a ChangeSet.
type Summarizer interface {
	Summarize(ctx context.Context, cs *git.ChangeSet) (*Result, error)
}

// Func adapts an ordinary function to the Summarizer interface.
type Func func(ctx context.Context, cs *git.ChangeSet) (*Result, error)

// Summarize calls f.
func (f Func) Summarize(ctx context.Context, cs *git.ChangeSet) (*Result, error) {
	return f(ctx, cs)
}

// NewResult derives the file lists and stat line from cs and attaches narrative.
// Binary files are listed under their index status.
func NewResult(cs *git.ChangeSet, narrative string) *Result {
	return &Result{
		Narrative: narrative,
		Added:     cs.Paths(git.KindAdded),
		Modified:  cs.Paths(git.KindModified),
		Deleted:   cs.Paths(git.KindDeleted),
		Renamed:   cs.Paths(git.KindRenamed),
		Stat:      cs.Stat,
	}
}

// Offline is a Summarizer that never touches the network. It returns file
// lists and stats with an empty narrative.
var Offline Summarizer = Func(func(_ context.Context, cs *git.ChangeSet) (*Result, error) {
	return NewResult(cs, ""), nil
})
