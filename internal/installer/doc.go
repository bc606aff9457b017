// Package installer ensures a local directory contains the emulator's
// runtime files, downloading and extracting the distribution archive when
// absent.
//
// The archive source is either an HTTP(S) URL or a local file path; HTTP
// redirects are not followed, and non-success statuses surface as a
// StatusError carrying the status code and any redirect Location header.
// Extraction streams the gzip-compressed tar directly into the install
// directory and is serialized across processes with a file lock.
package installer
