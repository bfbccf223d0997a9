package api

import "strings"

// Result prefixes that mark a reply as a notice instead of translated text.
const (
	ErrorPrefix = "(Error)"
	InfoPrefix  = "[Info]"
)

func ErrorResult(msg string) Response { return Response{Result: ErrorPrefix + " " + msg} }

func InfoResult(msg string) Response { return Response{Result: InfoPrefix + " " + msg} }

// IsNotice reports whether result is an error or info reply. The page side
// restores the original content when it sees one.
func IsNotice(result string) bool {
	return strings.Contains(result, ErrorPrefix) || strings.Contains(result, InfoPrefix)
}

// IsError reports whether result is an error reply.
func IsError(result string) bool {
	return strings.HasPrefix(strings.TrimSpace(result), ErrorPrefix)
}
