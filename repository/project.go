package repository

// Project represents information about a detected JavaScript project
type Project struct {
	RootPath     string // Absolute path to the project root directory
	Type         string // Type of project (javascript, babel, git)
	Name         string // Name of the project (extracted from package.json or git remote)
	RelativePath string // Path from project root to the specified file
}
