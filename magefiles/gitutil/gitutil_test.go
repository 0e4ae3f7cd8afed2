package gitutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestNextPatch(t *testing.T) {
	tests := map[string]string{
		"v1.2.3":        "v1.2.4",
		"v0.9.19":       "v0.9.20",
		"v2.0.0-rc.1":   "v2.0.1",
		"v1.4":          "v1.4.1",
		"":              "v0.1.0",
		"release-1.0.0": "v0.1.0",
	}
	for in, want := range tests {
		if got := NextPatch(in); got != want {
			t.Errorf("NextPatch(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if err = os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err = wt.Add("go.mod"); err != nil {
		t.Fatal(err)
	}
	sig := &object.Signature{Name: "ci", Email: "ci@example.org", When: time.Now()}
	hash, err := wt.Commit("initial", &git.CommitOptions{Author: sig})
	if err != nil {
		t.Fatal(err)
	}

	gu, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	version, err := gu.Describe()
	if err != nil {
		t.Fatal(err)
	}
	if version != "v0.0.0-"+hash.String()[:7] {
		t.Errorf("untagged version = %q", version)
	}

	if _, err = repo.CreateTag("v1.3.0", hash, &git.CreateTagOptions{Message: "v1.3.0", Tagger: sig}); err != nil {
		t.Fatal(err)
	}
	if version, err = gu.Describe(); err != nil {
		t.Fatal(err)
	}
	if version != "v1.3.0" {
		t.Errorf("tagged version = %q", version)
	}

	if err = os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module changed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if version, err = gu.Describe(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(version, "-dirty") {
		t.Errorf("dirty version = %q", version)
	}
}
