// Package main is the entry point for the socmetrics CLI tool, which computes
// opponent-analysis KPIs from StatsBomb open event and 360 data.
package main

import "github.com/pable/go-soccer-metrics/cmd"

func main() {
	cmd.Execute()
}
