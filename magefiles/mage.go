//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/pkg/errors"

	"github.com/violetrx/webclient/internal/shautil"
	"github.com/violetrx/webclient/magefiles/gitutil"
)

const dist = "dist"

var Default = Build

// Build compiles the bootstrap to dist/app.wasm and the page server.
func Build() (err error) {
	var version string
	if version, err = buildVersion(); err != nil {
		return
	}
	ldflags := "-s -w -X main.version=" + version

	if err = os.MkdirAll(dist, 0o755); err != nil {
		return
	}
	wasm := filepath.Join(dist, "app.wasm")
	env := map[string]string{"GOOS": "js", "GOARCH": "wasm"}
	if err = sh.RunWith(env, "go", "build", "-ldflags", ldflags, "-o", wasm, "./cmd/webclient"); err != nil {
		return errors.WithMessage(err, "build app.wasm")
	}

	var sum string
	if _, sum, err = shautil.ReadWithSha(wasm); err != nil {
		return
	}
	fmt.Printf("%s %s %s\n", wasm, version, sum)

	return sh.Run("go", "build", "-ldflags", ldflags, "-o", filepath.Join(dist, "webserve"), "./cmd/webserve")
}

// Test runs the native tests and vets the wasm build.
func Test() error {
	if err := sh.RunV("go", "test", "./..."); err != nil {
		return err
	}
	env := map[string]string{"GOOS": "js", "GOARCH": "wasm"}
	return sh.RunWith(env, "go", "vet", "./cmd/webclient", "./internal/jsbridge")
}

// Release tags HEAD with the next patch version and pushes it.
func Release() (err error) {
	mg.Deps(Test)

	var gu *gitutil.GitUtil
	if gu, err = gitutil.Open("."); err != nil {
		return
	}
	gu.Signature(os.Getenv("GIT_AUTHOR_NAME"), os.Getenv("GIT_AUTHOR_EMAIL"))

	return gu.PushNewVersion()
}

func buildVersion() (string, error) {
	gu, err := gitutil.Open(".")
	if err != nil {
		return "dev", nil
	}
	return gu.Describe()
}
