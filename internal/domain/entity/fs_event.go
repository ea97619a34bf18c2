package entity

// FsEventKind classifies a filesystem change.
type FsEventKind int

const (
	FsAdded FsEventKind = iota
	FsRemoved
	FsRenamed
	FsModified
)

func (k FsEventKind) String() string {
	switch k {
	case FsAdded:
		return "added"
	case FsRemoved:
		return "removed"
	case FsRenamed:
		return "renamed"
	default:
		return "modified"
	}
}

// FsEvent is one change under a watched directory.
type FsEvent struct {
	Path string
	Kind FsEventKind
}

// DirEntry is one raw directory listing entry.
type DirEntry struct {
	Name  string
	IsDir bool
}
