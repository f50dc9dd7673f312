package scanner

import "os"

// LinkResolver decides how link-like entries are presented in a listing.
// Resolve returns the stat info to use for the entry, an optional forced
// extension, and whether the entry should be skipped entirely.
type LinkResolver interface {
	Resolve(path string, de os.DirEntry) (info os.FileInfo, forcedExt string, skip bool)
}
