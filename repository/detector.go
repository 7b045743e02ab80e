package repository

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Detector identifies project root folders and provides project-related information
type Detector struct {
	markers []string
}

// New creates a new project detector instance
func New() *Detector {
	return &Detector{
		markers: []string{
			"package.json", // Node projects
			"babel.config.js",
			"babel.config.json",
			".babelrc",
			".git", // Generic VCS marker
		},
	}
}

// DetectProject identifies the project root for the given file path and returns project info
func (d *Detector) DetectProject(filePath string) (*Project, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, projectType := d.findProjectRoot(startDir)
	info := &Project{
		Type:     "unknown",
		RootPath: startDir,
	}
	if rootPath != "" {
		info.RootPath = rootPath
		info.Type = projectType
	}

	relPath, err := filepath.Rel(info.RootPath, absPath)
	if err != nil {
		relPath = filepath.Base(absPath)
	}
	info.RelativePath = filepath.ToSlash(relPath)
	info.Name = extractProjectName(info.RootPath, info.Type)
	return info, nil
}

// findProjectRoot searches up from the current directory for project markers
func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, determineProjectType(marker)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}

// extractProjectName attempts to extract a project name from configuration files
func extractProjectName(rootPath string, projectType string) string {
	switch projectType {
	case "javascript":
		return extractJSPackageName(filepath.Join(rootPath, "package.json"))
	case "git":
		return extractGitProjectName(rootPath)
	default:
		return filepath.Base(rootPath)
	}
}

func extractJSPackageName(packageJSONPath string) string {
	data, err := os.ReadFile(packageJSONPath)
	if err != nil {
		return filepath.Base(filepath.Dir(packageJSONPath))
	}
	pkg := struct {
		Name string `json:"name"`
	}{}
	if err = json.Unmarshal(data, &pkg); err != nil || pkg.Name == "" {
		return filepath.Base(filepath.Dir(packageJSONPath))
	}
	return pkg.Name
}

func extractGitProjectName(gitRoot string) string {
	file, err := os.Open(filepath.Join(gitRoot, ".git", "config"))
	if err != nil {
		return filepath.Base(gitRoot)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	foundRemote := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "[remote \"origin\"]") {
			foundRemote = true
			continue
		}
		if foundRemote && strings.HasPrefix(line, "url = ") {
			url := strings.TrimSuffix(strings.TrimPrefix(line, "url = "), ".git")
			parts := strings.Split(url, "/")
			return parts[len(parts)-1]
		}
	}
	return filepath.Base(gitRoot)
}

// determineProjectType identifies the type of project based on the marker file
func determineProjectType(marker string) string {
	switch marker {
	case "package.json":
		return "javascript"
	case "babel.config.js", "babel.config.json", ".babelrc":
		return "babel"
	case ".git":
		return "git"
	default:
		return "unknown"
	}
}
