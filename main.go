package main

import "github.com/Yates-Labs/folio/cmd"

func main() {
	cmd.Execute()
}
