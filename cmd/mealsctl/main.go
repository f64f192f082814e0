package main

import "github.com/moliceiro/meals/cmd/mealsctl/command"

func main() {
	command.Execute()
}
