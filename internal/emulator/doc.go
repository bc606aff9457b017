// Package emulator manages the lifecycle of a single DynamoDB-compatible
// emulator process: argument assembly for the Java runtime, spawn with the
// install directory as working directory, TCP readiness probing, and
// graceful or forceful termination.
package emulator
