// Command boardctl builds a departure board once from the terminal, or
// follows the board-served events the API publishes.
package main

func main() {
	Execute()
}
