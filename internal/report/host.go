package report

// Host is what a collector needs from the report generator it runs in.
type Host interface {
	// AddStringAsFile appends content to the named artifact.
	AddStringAsFile(content, name string) error
	// AddCopySpec stages every file matching glob for inclusion.
	AddCopySpec(glob string) error
}
