package main

import (
	"github.com/pescuma/go-build"
)

// Release steps for gitfixup, a single pure-Go binary with no cgo
// dependency to exclude any target arch for.
var releaseSteps = []string{"license-check", "generate", "build", "test", "zip"}

func main() {
	cfg := build.NewBuilderConfig()
	cfg.Archs = []string{
		"darwin/amd64",
		"darwin/arm64",
		"linux/386",
		"linux/amd64",
		"windows/386",
		"windows/amd64",
	}

	b, err := build.NewBuilder(cfg)
	if err != nil {
		panic(err)
	}

	b.Targets.Add("release", releaseSteps, nil)

	if err := b.RunTarget("release"); err != nil {
		panic(err)
	}
}
