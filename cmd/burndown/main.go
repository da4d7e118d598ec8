// Package main is the entry point for the burndown CLI.
package main

import (
	"github.com/huangsam/burndown/cmd"
	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/internal/history"
)

func main() {
	err := cmd.Execute()
	history.CloseHistory()
	if err != nil {
		contract.LogFatal("burndown failed", err)
	}
}
