// Package stack detects project toolchains from marker files in a directory.
package stack

import (
	"io/fs"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Marker maps a glob, relative to the project root, to a stack name.
type Marker struct {
	Glob  string
	Stack string
}

// Markers are checked in order. Only the project root is inspected.
var Markers = []Marker{
	{"Cargo.toml", "rust"},
	{"go.mod", "go"},
	{"pom.xml", "java-maven"},
	{"build.gradle", "java-gradle"},
	{"build.gradle.kts", "kotlin-gradle"},
	{"Package.swift", "swift"},
	{"Gemfile", "ruby"},
	{"composer.json", "php"},
	{"mix.exs", "elixir"},
	{"deno.json", "deno"},
	{"bun.lockb", "bun"},
	{"pnpm-lock.yaml", "pnpm"},
	{"yarn.lock", "yarn"},
	{"package-lock.json", "npm"},
	{"package.json", "node"},
	{"pyproject.toml", "python"},
	{"requirements.txt", "python"},
	{"Pipfile", "python"},
	{"CMakeLists.txt", "cpp-cmake"},
	{"Makefile", "make"},
	{"Dockerfile", "docker"},
	{"docker-compose.{yml,yaml}", "docker-compose"},
	{"{terraform.tf,.terraform}", "terraform"},
	{".claude-plugin/plugin.json", "claude-plugin"},
	{"*.{csproj,fsproj,sln}", "dotnet"},
}

// Detect returns the stacks found in dir, in marker order without
// duplicates. An unreadable directory yields nil.
func Detect(dir string) []string {
	if dir == "" {
		return nil
	}

	return DetectFS(os.DirFS(dir))
}

// DetectFS is Detect over an fs.FS rooted at the project.
func DetectFS(fsys fs.FS) []string {
	var stacks []string

	for _, m := range Markers {
		if slices.Contains(stacks, m.Stack) {
			continue
		}

		matches, err := doublestar.Glob(fsys, m.Glob)
		if err != nil || len(matches) == 0 {
			continue
		}

		stacks = append(stacks, m.Stack)
	}

	return stacks
}
