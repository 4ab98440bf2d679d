package main

import "github.com/yuwenzhijiao/showcase/internal/cli"

func main() {
	cli.Execute()
}
