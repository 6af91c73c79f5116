// ABOUTME: Main entry point for the HackerHome API
// ABOUTME: Hands control to the cobra command tree

package main

func main() {
	Execute()
}
