// Command hotreload runs a live-reloadable module against a persistent state
// block and inspects reload artifacts.
package main

func main() {
	execute()
}
