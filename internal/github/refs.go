package github

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidFormat возвращается, когда ссылку на репозиторий или коммит не удалось разобрать.
// Такая ошибка возникает до любого обращения к API.
var ErrInvalidFormat = errors.New("invalid GitHub reference format")

// minHashLength минимальная длина хеша коммита в ссылке
const minHashLength = 6

// RepoRef идентифицирует репозиторий на GitHub
type RepoRef struct {
	Owner string
	Repo  string
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Repo
}

// Matches сравнивает репозитории без учета регистра, как это делает GitHub
func (r RepoRef) Matches(other RepoRef) bool {
	return strings.EqualFold(r.Owner, other.Owner) && strings.EqualFold(r.Repo, other.Repo)
}

// CommitRef идентифицирует коммит в конкретном репозитории
type CommitRef struct {
	RepoRef
	Hash string
}

// ParseRepoURL разбирает ссылку вида [https://]github.com/OWNER/REPO[.git]
func ParseRepoURL(raw string) (RepoRef, error) {
	parts, err := githubPath(raw)
	if err != nil {
		return RepoRef{}, err
	}
	if len(parts) < 2 {
		return RepoRef{}, fmt.Errorf("%w: repository URL must contain owner and repo: %q", ErrInvalidFormat, raw)
	}

	ref := RepoRef{Owner: parts[0], Repo: strings.TrimSuffix(parts[1], ".git")}
	if ref.Repo == "" {
		return RepoRef{}, fmt.Errorf("%w: empty repository name: %q", ErrInvalidFormat, raw)
	}
	return ref, nil
}

// ParseCommitURL разбирает ссылку вида [https://]github.com/OWNER/REPO/commit/HASH
func ParseCommitURL(raw string) (CommitRef, error) {
	parts, err := githubPath(raw)
	if err != nil {
		return CommitRef{}, err
	}
	if len(parts) < 4 || parts[2] != "commit" {
		return CommitRef{}, fmt.Errorf("%w: commit URL must look like github.com/OWNER/REPO/commit/HASH: %q", ErrInvalidFormat, raw)
	}

	hash := parts[3]
	if len(hash) < minHashLength {
		return CommitRef{}, fmt.Errorf("%w: commit hash is shorter than %d characters: %q", ErrInvalidFormat, minHashLength, raw)
	}

	return CommitRef{
		RepoRef: RepoRef{Owner: parts[0], Repo: strings.TrimSuffix(parts[1], ".git")},
		Hash:    hash,
	}, nil
}

// githubPath проверяет хост и возвращает непустые сегменты пути
func githubPath(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("%w: empty URL", ErrInvalidFormat)
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, raw)
	}

	host := strings.ToLower(u.Hostname())
	if host != "github.com" && host != "www.github.com" {
		return nil, fmt.Errorf("%w: host must be github.com: %q", ErrInvalidFormat, raw)
	}

	return strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' }), nil
}
