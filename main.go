package main

import "github.com/majawitosz/tab-backend/cmd"

func main() {
	cmd.Execute()
}
