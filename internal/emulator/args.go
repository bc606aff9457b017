package emulator

import (
	"fmt"
	"path/filepath"
)

// EntryPointJar is the runtime entry point inside the install directory.
const EntryPointJar = "DynamoDBLocal.jar"

// NativeLibDir is the native-library subdirectory inside the install
// directory, referenced relative to the working directory at spawn time.
const NativeLibDir = "DynamoDBLocal_lib"

// BuildArgs assembles the Java argument list for the emulator:
//
//	-Xrs -Djava.library.path=./DynamoDBLocal_lib [javaOptions...]
//	-jar DynamoDBLocal.jar -port <port> [-dbPath <dir> | -inMemory]
//	[extraArgs...]
//
// -Xrs restricts JVM signal handling so termination signals reach the
// process itself. Empty entries in javaOptions and extraArgs are filtered
// out before assembly.
func BuildArgs(port int, dbPath string, javaOptions, extraArgs []string) []string {
	args := []string{
		"-Xrs",
		"-Djava.library.path=." + string(filepath.Separator) + NativeLibDir,
	}
	args = appendNonEmpty(args, javaOptions)
	args = append(args,
		"-jar", EntryPointJar,
		"-port", fmt.Sprintf("%d", port),
	)
	if dbPath != "" {
		args = append(args, "-dbPath", dbPath)
	} else {
		args = append(args, "-inMemory")
	}
	return appendNonEmpty(args, extraArgs)
}

// appendNonEmpty appends the non-empty entries of src to dst.
func appendNonEmpty(dst, src []string) []string {
	for _, s := range src {
		if s != "" {
			dst = append(dst, s)
		}
	}
	return dst
}
