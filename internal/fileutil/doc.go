// Package fileutil provides small filesystem helpers shared by the installer
// and the emulator process packages: recursive directory creation and
// existence checks for regular files.
package fileutil
