//go:build tools
// +build tools

// Package tools is used to manage tool dependencies via go mod.
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
