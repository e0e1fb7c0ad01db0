// Command sierrachat is a terminal client for the Sierra AI Assistant.
package main

import "github.com/diogo/sierrachat/internal/commands"

func main() {
	commands.Execute()
}
