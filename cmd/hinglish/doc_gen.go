//go:build ignore
// +build ignore

package main

import (
	"log"

	hinglish "github.com/mithrel/hinglish/internal/cli"
	"github.com/spf13/cobra/doc"
)

func main() {
	root := hinglish.NewRootCmd()

	if err := doc.GenMarkdownTree(root, "./docs/markdown"); err != nil {
		log.Fatal(err)
	}

	header := &doc.GenManHeader{
		Title:   "HINGLISH",
		Section: "1",
	}
	if err := doc.GenManTree(root, header, "./docs/man"); err != nil {
		log.Fatal(err)
	}
}
