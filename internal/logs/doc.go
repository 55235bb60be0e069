// Package logs serves pages of the daemon log file to the CLI.
//
// Reads are cursor based: callers pass the byte position returned by the
// previous page, or a negative cursor for the trailing window of lines.
// Follow mode polls the file for a bounded wait so `reelflow logs --follow`
// can loop on it without busy reading. The cursor never splits a line; a
// record caught mid-write is held back until it is complete.
package logs
