package main

import (
	"github.com/local/pdftools/internal/command"
	"github.com/local/pdftools/internal/command/edit"
	"github.com/local/pdftools/internal/command/inspect"
)

func main() {
	command.Main(
		"pdftools", "merge, split, reorder and rotate PDF pages",
		append(edit.Commands(), inspect.Commands()...)...,
	)
}
