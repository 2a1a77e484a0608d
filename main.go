package main

import "github.com/viktsys/cotacoes/cmd"

func main() {
	cmd.Execute()
}
