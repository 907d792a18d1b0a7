package git

// Kind classifies a staged path.
type Kind int

const (
	KindAdded Kind = iota
	KindModified
	KindDeleted
	KindRenamed
	// KindBinarySkipped marks a path whose content is never read or sent anywhere.
	KindBinarySkipped
)

// String returns the lowercase name used in prompts and changelog lines.
func (k Kind) String() string {
	switch k {
	case KindAdded:
		return "added"
	case KindModified:
		return "modified"
	case KindDeleted:
		return "deleted"
	case KindRenamed:
		return "renamed"
	case KindBinarySkipped:
		return "binary"
	default:
		return "unknown"
	}
}

// StagedChange is one path from the index.
type StagedChange struct {
	Path string
	Kind Kind
	// Status is the index status before binary detection. It is never
	// KindBinarySkipped, so binary files can still be listed by category.
	Status Kind
	// Content holds the (possibly truncated) diff or new-file body.
	// Always empty for deleted and binary entries.
	Content    string
	RenameFrom string
	Truncated  bool
}

// DisplayPath returns "old -> new" for renames and the plain path otherwise.
func (c StagedChange) DisplayPath() string {
	if c.RenameFrom != "" {
		return c.RenameFrom + " -> " + c.Path
	}
	return c.Path
}

// ChangeSet is the ordered set of staged changes plus the stat summary line.
// Every staged path appears exactly once.
type ChangeSet struct {
	Changes []StagedChange
	Stat    string
}

// Len returns the number of staged paths.
func (cs *ChangeSet) Len() int {
	if cs == nil {
		return 0
	}
	return len(cs.Changes)
}

// Paths returns display paths of every change whose Status matches kind.
// Passing KindBinarySkipped matches on Kind instead.
func (cs *ChangeSet) Paths(kind Kind) []string {
	if cs == nil {
		return nil
	}
	var paths []string
	for _, c := range cs.Changes {
		match := c.Status == kind
		if kind == KindBinarySkipped {
			match = c.Kind == KindBinarySkipped
		}
		if match {
			paths = append(paths, c.DisplayPath())
		}
	}
	return paths
}
