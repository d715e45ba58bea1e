package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	gogithub "github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/require"
)

func TestUploadCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()

	var storedSHA string
	var putRequests []map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/fitness-challenge/contents/data/2026-01-15/leader_board.xlsx", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if storedSHA == "" {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"sha": storedSHA, "type": "file"})
		case http.MethodPut:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			putRequests = append(putRequests, body)
			storedSHA = "abc123"
			json.NewEncoder(w).Encode(map[string]any{
				"content": map[string]string{"html_url": "https://github.com/acme/fitness-challenge/blob/main/data/2026-01-15/leader_board.xlsx"},
			})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	baseURL, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	uploader := &Uploader{
		client:  gogithub.NewClient(nil),
		owner:   "acme",
		repo:    "fitness-challenge",
		branch:  "main",
		message: "Auto update leaderboard",
	}
	uploader.client.BaseURL = baseURL

	local := filepath.Join(t.TempDir(), "leader_board.xlsx")
	require.NoError(t, os.WriteFile(local, []byte("workbook-bytes"), 0o644))

	htmlURL, err := uploader.Upload(ctx, local, "data/2026-01-15/leader_board.xlsx")
	require.NoError(t, err)
	require.Contains(t, htmlURL, "leader_board.xlsx")

	require.Len(t, putRequests, 1)
	require.Equal(t, "Auto update leaderboard", putRequests[0]["message"])
	require.Equal(t, "main", putRequests[0]["branch"])
	require.NotContains(t, putRequests[0], "sha")

	encoded, ok := putRequests[0]["content"].(string)
	require.True(t, ok)
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	require.Equal(t, "workbook-bytes", string(decoded))

	// Second push of the same path must carry the blob SHA.
	_, err = uploader.Upload(ctx, local, "data/2026-01-15/leader_board.xlsx")
	require.NoError(t, err)
	require.Len(t, putRequests, 2)
	require.Equal(t, "abc123", putRequests[1]["sha"])
}
