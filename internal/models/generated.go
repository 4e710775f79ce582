package models

// GeneratedFile is one rendered output file, ready to be written to disk.
type GeneratedFile struct {
	PackageName string
	FilePath    string
	Content     string

	// Services are the interface names the file registers, in output order.
	Services []string
}
