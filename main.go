package main

import "github.com/opnfv/kube-node-validator/cmd"

func main() {
	cmd.Execute()
}
