// Package main provides the entry point for the viewer CLI and server.
package main

func main() {
	Execute()
}
