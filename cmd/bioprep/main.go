package main

import "github.com/forPelevin/bioprep/internal/cli"

func main() { cli.Main() }
