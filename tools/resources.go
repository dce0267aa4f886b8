package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jonwraymond/ghtools/failure"
	"github.com/jonwraymond/ghtools/ghclient"
)

// Resource URIs.
const (
	RepositoriesURI = "github://repositories"
	UserURI         = "github://user"
)

const jsonMIME = "application/json"

// repositorySummary is one element of the github://repositories resource.
type repositorySummary struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Private     bool   `json:"private"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	HTMLURL     string `json:"html_url"`
}

// userSummary is the github://user resource.
type userSummary struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Bio         string `json:"bio"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	HTMLURL     string `json:"html_url"`
}

func (r *Registry) registerResources(s *server.MCPServer) {
	s.AddResource(
		mcp.NewResource(RepositoriesURI, "User Repositories",
			mcp.WithResourceDescription("List of repositories for the authenticated user"),
			mcp.WithMIMEType(jsonMIME)),
		r.resourceHandler(RepositoriesURI, r.ReadRepositories),
	)
	s.AddResource(
		mcp.NewResource(UserURI, "User Profile",
			mcp.WithResourceDescription("Authenticated user's profile information"),
			mcp.WithMIMEType(jsonMIME)),
		r.resourceHandler(UserURI, r.ReadUser),
	)
}

func (r *Registry) resourceHandler(uri string, read func(context.Context) ([]byte, error)) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := read(ctx)
		if err != nil {
			return nil, failure.Describe(err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: uri, MIMEType: jsonMIME, Text: string(data)},
		}, nil
	}
}

// ReadRepositories renders the github://repositories resource from the
// cached first page of list_repositories.
func (r *Registry) ReadRepositories(ctx context.Context) ([]byte, error) {
	raw, err := r.Call(ctx, "list_repositories", map[string]any{
		"per_page": ghclient.MaxPerPage,
		"sort":     "updated",
	})
	if err != nil {
		return nil, err
	}
	var page struct {
		Repositories []ghclient.Repository `json:"repositories"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	out := make([]repositorySummary, 0, len(page.Repositories))
	for _, repo := range page.Repositories {
		out = append(out, repositorySummary{
			Name:        repo.Name,
			FullName:    repo.FullName,
			Private:     repo.Private,
			Description: repo.Description,
			Language:    repo.Language,
			Stars:       repo.Stars,
			HTMLURL:     repo.HTMLURL,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// ReadUser renders the github://user resource from the cached
// get_user_info response.
func (r *Registry) ReadUser(ctx context.Context) ([]byte, error) {
	raw, err := r.Call(ctx, "get_user_info", nil)
	if err != nil {
		return nil, err
	}
	var u ghclient.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	return json.MarshalIndent(userSummary{
		Login:       u.Login,
		Name:        u.Name,
		Email:       u.Email,
		Bio:         u.Bio,
		PublicRepos: u.PublicRepos,
		Followers:   u.Followers,
		Following:   u.Following,
		HTMLURL:     u.HTMLURL,
	}, "", "  ")
}
