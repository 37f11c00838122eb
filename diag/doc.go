// Package diag is the diagnostics collaborator of the benchmark kernel.
//
// Library packages never log on their own. They report events to a
// Diagnostics value passed in through their options, and every call names
// the reporting rank and the process count explicitly. Nop discards
// everything; NewZap writes structured zap records, by default from rank 0
// only.
package diag
