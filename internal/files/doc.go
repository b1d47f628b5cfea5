// Package files provides file system operations and discovery utilities
// for locating meter exports and preparing output folders.
//
// Discovery: finds the input workbooks of a folder by extension, skipping
// Office lock files and ordering them by name.
//
// Manager: ensures directories exist and checks for files, relative to a
// base directory.
//
// Example usage:
//
//	discovery := files.NewDiscovery(".")
//	found, err := discovery.FindByExtension("/data/march", ".xlsx")
//
//	manager := files.NewManager("/data/march", logger)
//	summaryDir, err := manager.EnsureDirectory("Summary")
package files
