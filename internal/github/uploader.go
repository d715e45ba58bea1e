// Package github pushes exported workbooks to a GitHub repository.
package github

import (
	"context"
	"net/http"
	"os"

	gogithub "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// Uploader creates or updates files in a repository through the contents API.
type Uploader struct {
	client  *gogithub.Client
	owner   string
	repo    string
	branch  string
	message string
}

// NewUploader constructs an Uploader authenticated with a personal access
// token.
func NewUploader(token, owner, repo, branch, message string) *Uploader {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &Uploader{
		client:  gogithub.NewClient(tc),
		owner:   owner,
		repo:    repo,
		branch:  branch,
		message: message,
	}
}

// Upload pushes the file at localPath to repoPath on the configured branch,
// creating the file if absent and updating it otherwise. It returns the HTML
// URL of the pushed content.
func (u *Uploader) Upload(ctx context.Context, localPath, repoPath string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}

	opts := &gogithub.RepositoryContentFileOptions{
		Message: gogithub.String(u.message),
		Content: data,
		Branch:  gogithub.String(u.branch),
	}

	sha, err := u.existingSHA(ctx, repoPath)
	if err != nil {
		return "", err
	}

	var res *gogithub.RepositoryContentResponse
	if sha != "" {
		opts.SHA = gogithub.String(sha)
		res, _, err = u.client.Repositories.UpdateFile(ctx, u.owner, u.repo, repoPath, opts)
	} else {
		res, _, err = u.client.Repositories.CreateFile(ctx, u.owner, u.repo, repoPath, opts)
	}
	if err != nil {
		return "", err
	}

	return res.GetContent().GetHTMLURL(), nil
}

// existingSHA looks up the blob SHA of repoPath, or "" when the file does not
// exist yet.
func (u *Uploader) existingSHA(ctx context.Context, repoPath string) (string, error) {
	file, _, resp, err := u.client.Repositories.GetContents(ctx, u.owner, u.repo, repoPath,
		&gogithub.RepositoryContentGetOptions{Ref: u.branch})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", err
	}
	if file == nil {
		return "", nil
	}
	return file.GetSHA(), nil
}
