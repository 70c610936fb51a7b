// Package logtail reads the tail of the shelf JSON log for display.
//
// Read extracts the last N lines with a single pass over the file using a
// ring buffer of size N, so memory stays O(N) regardless of file size.
// Tail decodes those lines into Entry values using the keys written by the
// logging package; lines that are not JSON are kept verbatim as the message.
//
// A missing file is not an error: Read and Tail return no lines.
package logtail
