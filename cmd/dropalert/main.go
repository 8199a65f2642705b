// Package main provides the CLI entrypoint for dropalert.
package main

func main() {
	Execute()
}
