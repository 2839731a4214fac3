package main

import "github.com/hkreduce/greduce/cmd/greduce/cmd"

func main() {
	cmd.Execute()
}
