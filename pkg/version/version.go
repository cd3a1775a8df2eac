package version

import "runtime"

const placeholder = "VERSION_PLACEHOLDER"

var (
	// These values are injected during build - DO NOT MODIFY
	Version   = placeholder
	CommitSHA = "COMMIT_PLACEHOLDER"
)

// Current returns the injected version, or "dev" for local builds.
func Current() string {
	if Version == "" || Version == placeholder {
		return "dev"
	}
	return Version
}

// GetVersionInfo is the short form, also written as the PDF creator.
func GetVersionInfo() string {
	return "docstamp " + Current()
}

func GetDetailedVersionInfo() string {
	return "docstamp\n" +
		"Version:  " + Current() + "\n" +
		"Commit:   " + CommitSHA + "\n" +
		"Go:       " + runtime.Version() + "\n"
}
