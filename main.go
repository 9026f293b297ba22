package main

import "github.com/mkojima-dev/review-balancer/cmd"

func main() {
	cmd.Execute()
}
