// Package core implements the emulator lifecycle manager behind the public
// dynamolocal API: installation, launch, port-keyed instance tracking, stop
// and relaunch. The public package is a thin facade over this one.
package core
