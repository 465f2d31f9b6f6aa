package fileutil

import "os"

// ReadableByAll is the file permission mode for written configuration files,
// which are expected to be consumed by other tooling and users.
const ReadableByAll os.FileMode = 0o644

// DirReadableByAll is the permission mode for directories created while
// writing configuration files.
const DirReadableByAll os.FileMode = 0o755
