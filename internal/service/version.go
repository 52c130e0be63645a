package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"vscodeops/internal/domain"
	"vscodeops/internal/platform"
	"vscodeops/internal/util"
)

// endpoints holds the remote locations version detection talks to. The
// defaults point at the public monaco-vscode-api repository and the VS Code
// update service; tests override them.
type endpoints struct {
	tagsURL     string
	manifestURL string // format template, takes the tag name
	updateHost  string
}

func defaultEndpoints() endpoints {
	return endpoints{
		tagsURL:     "https://api.github.com/repos/CodinGame/monaco-vscode-api/tags",
		manifestURL: "https://raw.githubusercontent.com/CodinGame/monaco-vscode-api/%s/package.json",
		updateHost:  "https://update.code.visualstudio.com",
	}
}

type gitHubTag struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

type packageManifest struct {
	Config struct {
		VSCode struct {
			Commit string `json:"commit"`
		} `json:"vscode"`
	} `json:"config"`
}

// Resolver detects the newest monaco-vscode-api release and the VS Code
// commit it pins. The tag API's default ordering is trusted as newest-first;
// no semantic version comparison happens here, so a reordered API response
// would silently select the wrong release.
type Resolver struct {
	client *util.HTTPClient
	logger *zap.Logger
	eps    endpoints
}

var _ VersionResolver = (*Resolver)(nil)

// NewResolver creates a version resolver backed by the public endpoints
func NewResolver(client *util.HTTPClient, logger *zap.Logger) *Resolver {
	return &Resolver{client: client, logger: logger, eps: defaultEndpoints()}
}

// Detect resolves the latest compatible server build. It performs two
// sequential network round-trips (tag list, then manifest) and never retries;
// retries are the caller's responsibility.
func (r *Resolver) Detect(ctx context.Context) (*domain.ServerInfo, error) {
	var tags []gitHubTag
	if err := r.getJSON(ctx, r.eps.tagsURL, &tags); err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: no tags found in monaco-vscode-api repository", domain.ErrVersionDetection)
	}
	latest := tags[0]

	var manifest packageManifest
	manifestURL := fmt.Sprintf(r.eps.manifestURL, latest.Name)
	if err := r.getJSON(ctx, manifestURL, &manifest); err != nil {
		return nil, err
	}
	commit := manifest.Config.VSCode.Commit
	if commit == "" {
		return nil, fmt.Errorf("%w: manifest for %s carries no vscode commit", domain.ErrVersionDetection, latest.Name)
	}

	plat, err := platform.Current()
	if err != nil {
		return nil, err
	}

	info := &domain.ServerInfo{
		MonacoAPIVersion: latest.Name,
		VSCodeCommit:     commit,
		Platform:         plat,
		DownloadURL: fmt.Sprintf("%s/commit:%s/%s/%s",
			r.eps.updateHost, commit, plat.Flavor(), plat.URLSuffix()),
	}

	r.logger.Info("Resolved server version",
		zap.String("tag", info.MonacoAPIVersion),
		zap.String("commit", info.VSCodeCommit),
		zap.String("platform", string(info.Platform)))
	return info, nil
}

// getJSON performs a JSON GET request without retries
func (r *Resolver) getJSON(ctx context.Context, url string, result interface{}) error {
	resp, err := r.client.Get(ctx, url)
	if err != nil {
		return err
	}
	defer r.client.CloseResponseBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &domain.APIError{URL: url, StatusCode: resp.StatusCode, Message: "request failed"}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrVersionDetection, url, err)
	}
	return nil
}
