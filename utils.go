package main

import (
	"net"
	"regexp"
)

var docNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)

func validDocName(name string) bool {
	return docNamePattern.MatchString(name)
}

// remoteIP strips the port from a request's remote address.
func remoteIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
