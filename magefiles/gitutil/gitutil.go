package gitutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/semver"
)

const firstTag = "v0.1.0"

type GitUtil struct {
	repo      *git.Repository
	worktree  *git.Worktree
	signature *object.Signature

	semverTags []string
}

func Open(path string) (gu *GitUtil, err error) {
	gu = &GitUtil{}
	if gu.repo, err = git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true}); err != nil {
		return
	}
	if gu.worktree, err = gu.repo.Worktree(); err != nil {
		return
	}
	return
}

func (gu *GitUtil) Signature(name, email string) {
	gu.signature = &object.Signature{Name: name, Email: email, When: time.Now()}
}

// Describe names HEAD for version stamping: the latest semver tag, with the
// short commit appended when HEAD is not the tagged commit and "-dirty"
// when the worktree has changes.
func (gu *GitUtil) Describe() (version string, err error) {
	if err = gu.loadTags(); err != nil {
		return "", err
	}

	var head *plumbing.Reference
	if head, err = gu.repo.Head(); err != nil {
		return "", errors.Wrap(err, "resolve HEAD")
	}

	version = "v0.0.0"
	if len(gu.semverTags) > 0 {
		version = gu.semverTags[0]
	}
	var tagged plumbing.Hash
	if tagged, err = gu.tagCommit(version); err != nil || tagged != head.Hash() {
		version += "-" + head.Hash().String()[:7]
	}

	var status git.Status
	if status, err = gu.worktree.Status(); err != nil {
		return "", errors.Wrap(err, "worktree status")
	}
	if !status.IsClean() {
		version += "-dirty"
	}
	return version, nil
}

func (gu *GitUtil) tagCommit(tag string) (plumbing.Hash, error) {
	ref, err := gu.repo.Tag(tag)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if annotated, err := gu.repo.TagObject(ref.Hash()); err == nil {
		return annotated.Target, nil
	}
	return ref.Hash(), nil
}

func (gu *GitUtil) PushNewVersion() (err error) {
	if gu.signature == nil || gu.signature.Name == "" {
		return fmt.Errorf("call Signature before tagging")
	}

	if err = gu.fetchTags(); err != nil {
		return err
	}
	newTag := NextPatch(gu.latest())

	var head *plumbing.Reference
	if head, err = gu.repo.Head(); err != nil {
		return err
	}

	opts := &git.CreateTagOptions{Message: newTag, Tagger: gu.signature}
	if _, err = gu.repo.CreateTag(newTag, head.Hash(), opts); err != nil {
		return err
	}
	specs := []config.RefSpec{
		config.RefSpec(fmt.Sprintf("%s:%s", head.Name(), head.Name())),
		config.RefSpec(fmt.Sprintf("refs/tags/%s:refs/tags/%s", newTag, newTag)),
	}

	token := devToken()
	if token != "" {
		_ = os.Setenv("ACTIONS_TOKEN", token)
	}
	token = os.Getenv("ACTIONS_TOKEN")

	return gu.repo.Push(&git.PushOptions{
		Auth:       &http.BasicAuth{Username: token},
		RemoteName: "origin",
		RefSpecs:   specs,
	})
}

func (gu *GitUtil) fetchTags() (err error) {
	if err = gu.repo.Fetch(&git.FetchOptions{Tags: git.AllTags}); err != nil {
		if err != git.NoErrAlreadyUpToDate {
			return err
		}
	}
	return gu.loadTags()
}

func (gu *GitUtil) loadTags() error {
	tags, err := gu.repo.Tags()
	if err != nil {
		return err
	}
	gu.semverTags = []string{}
	if err = tags.ForEach(func(reference *plumbing.Reference) error {
		if semver.IsValid(reference.Name().Short()) {
			gu.semverTags = append(gu.semverTags, reference.Name().Short())
		}
		return nil
	}); err != nil {
		return err
	}
	sort.SliceStable(gu.semverTags, func(i, j int) bool {
		return semver.Compare(gu.semverTags[i], gu.semverTags[j]) > 0
	})
	return nil
}

func (gu *GitUtil) latest() string {
	if len(gu.semverTags) == 0 {
		return ""
	}
	return gu.semverTags[0]
}

// NextPatch bumps the patch number of a vMAJOR.MINOR.PATCH tag. Pre-release
// and build suffixes are dropped; an empty or invalid tag yields v0.1.0.
func NextPatch(latest string) string {
	if !semver.IsValid(latest) {
		return firstTag
	}
	canonical := strings.TrimSuffix(semver.Canonical(latest), semver.Prerelease(latest))
	split := strings.Split(canonical, ".")
	i, err := strconv.Atoi(split[2])
	if err != nil {
		return firstTag
	}
	return fmt.Sprintf("%s.%s.%d", split[0], split[1], i+1)
}

func devToken() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	var tokenBytes []byte
	tokenBytes, err = os.ReadFile(filepath.Join(dir, ".github_token"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(tokenBytes))
}
