// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines FSInfo, which ties a parsed component back to the manifest
// file it came from. Registry validation errors and duplicate-name errors quote
// this path so the offending manifest can be found directly.
package model

// FSInfo stores file system metadata for a parsed definition.
type FSInfo struct {
	FilePath string
}

// NewFSInfo creates an FSInfo for the given path.
func NewFSInfo(filePath string) *FSInfo {
	return &FSInfo{
		FilePath: filePath,
	}
}

// String returns the file path, or "<unknown>" for definitions that were
// built in code.
func (f *FSInfo) String() string {
	if f == nil || f.FilePath == "" {
		return "<unknown>"
	}
	return f.FilePath
}
