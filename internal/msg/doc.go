// Package msg is the message table for operator-facing output.
//
// The tool's ancestry is a pair of duplicated English and French scripts;
// here one core emits keys and this catalog localizes them. English text
// serves as both key and fallback.
package msg
