package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zarouz/scriptforge/internal/fountain"
	"github.com/zarouz/scriptforge/internal/server/dto"
	"github.com/zarouz/scriptforge/internal/storage/content"
	"github.com/zarouz/scriptforge/internal/storage/gitvc"
)

type testEnv struct {
	server *httptest.Server
	svc    *content.Service
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	svc, err := content.NewService(t.TempDir(), gitvc.Author{Name: "test", Email: "test@example.com"})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	// Fake fountain parser collaborator.
	parserSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/parse":
			var req struct {
				FountainText string `json:"fountain_text"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			_ = json.NewEncoder(w).Encode(map[string]string{"html": "<div>" + req.FountainText + "</div>"})
		case "/health":
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(parserSrv.Close)

	parser := fountain.NewClient(parserSrv.URL, 0)
	router := NewRouter(svc, parser, nil, nil, "test")

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, svc: svc}
}

// do issues a request and decodes the JSON response into out (if non-nil).
func (e *testEnv) do(t *testing.T, method, path string, body, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("failed to decode response %q: %v", data, err)
		}
	}
	return resp.StatusCode
}

func (e *testEnv) createProject(t *testing.T, name string) dto.ProjectResponse {
	t.Helper()
	var p dto.ProjectResponse
	status := e.do(t, http.MethodPost, "/api/projects", map[string]string{"name": name}, &p)
	if status != http.StatusOK {
		t.Fatalf("create project returned %d", status)
	}
	return p
}

func (e *testEnv) createScript(t *testing.T, projectID, title string) dto.ScriptResponse {
	t.Helper()
	var s dto.ScriptResponse
	status := e.do(t, http.MethodPost, "/api/projects/"+projectID+"/scripts", map[string]string{"title": title}, &s)
	if status != http.StatusOK {
		t.Fatalf("create script returned %d", status)
	}
	return s
}

func TestHealth(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t)

	var out dto.HealthResponse
	if status := env.do(t, http.MethodGet, "/api/health", nil, &out); status != http.StatusOK {
		t.Fatalf("health returned %d", status)
	}
	if out.Status != "ok" || out.Version != "test" {
		t.Errorf("health = %+v", out)
	}
}

func TestProjectEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("CreateAndList", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		p := env.createProject(t, "Season One")
		if p.ID == "" || p.Name != "Season One" || p.CreatedAt == "" {
			t.Errorf("project = %+v", p)
		}

		var list dto.ProjectListResponse
		if status := env.do(t, http.MethodGet, "/api/projects", nil, &list); status != http.StatusOK {
			t.Fatalf("list returned %d", status)
		}
		if len(list) != 1 || list[0].ID != p.ID {
			t.Errorf("list = %+v", list)
		}
	})

	t.Run("CreateMissingName", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		var errResp dto.ErrorResponse
		status := env.do(t, http.MethodPost, "/api/projects", map[string]string{"description": "x"}, &errResp)
		if status != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", status)
		}
		if errResp.Error.Code != dto.ErrorCodeMissingField {
			t.Errorf("code = %s, want MISSING_FIELD", errResp.Error.Code)
		}
	})

	t.Run("CreateDuplicateName", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		env.createProject(t, "Duplicate")
		var errResp dto.ErrorResponse
		status := env.do(t, http.MethodPost, "/api/projects", map[string]string{"name": "Duplicate"}, &errResp)
		if status != http.StatusConflict {
			t.Fatalf("status = %d, want 409", status)
		}
		if errResp.Error.Code != dto.ErrorCodeConflict {
			t.Errorf("code = %s, want CONFLICT", errResp.Error.Code)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		p := env.createProject(t, "Doomed")
		var ack dto.AckResponse
		if status := env.do(t, http.MethodDelete, "/api/projects/"+p.ID, nil, &ack); status != http.StatusOK {
			t.Fatalf("delete returned %d", status)
		}
		if ack.Status != "success" {
			t.Errorf("ack = %+v", ack)
		}

		// Second deletion hits a missing record.
		if status := env.do(t, http.MethodDelete, "/api/projects/"+p.ID, nil, nil); status != http.StatusNotFound {
			t.Errorf("second delete returned %d, want 404", status)
		}
	})

	t.Run("DeleteMalformedID", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		if status := env.do(t, http.MethodDelete, "/api/projects/not-an-id", nil, nil); status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
	})
}

func TestScriptEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("Lifecycle", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		p := env.createProject(t, "Feature")
		s := env.createScript(t, p.ID, "Opening Scene")
		if s.FilePath != "opening-scene.fountain" || s.ProjectID != p.ID {
			t.Errorf("script = %+v", s)
		}

		var list dto.ScriptListResponse
		if status := env.do(t, http.MethodGet, "/api/projects/"+p.ID+"/scripts", nil, &list); status != http.StatusOK {
			t.Fatalf("list returned %d", status)
		}
		if len(list) != 1 || list[0].ID != s.ID {
			t.Errorf("list = %+v", list)
		}

		var body dto.ScriptContentResponse
		if status := env.do(t, http.MethodGet, "/api/scripts/"+s.ID, nil, &body); status != http.StatusOK {
			t.Fatalf("get returned %d", status)
		}
		if body.Content != "Title: OPENING SCENE\n\nINT. SCENE - DAY\n\n" {
			t.Errorf("content = %q", body.Content)
		}

		var ack dto.AckResponse
		if status := env.do(t, http.MethodPut, "/api/scripts/"+s.ID, map[string]string{"content": "Title: REWRITE\n"}, &ack); status != http.StatusOK {
			t.Fatalf("update returned %d", status)
		}
		if status := env.do(t, http.MethodGet, "/api/scripts/"+s.ID, nil, &body); status != http.StatusOK {
			t.Fatalf("get after update returned %d", status)
		}
		if body.Content != "Title: REWRITE\n" {
			t.Errorf("updated content = %q", body.Content)
		}

		if status := env.do(t, http.MethodDelete, "/api/scripts/"+s.ID, nil, &ack); status != http.StatusOK {
			t.Fatalf("delete returned %d", status)
		}
		if status := env.do(t, http.MethodGet, "/api/scripts/"+s.ID, nil, nil); status != http.StatusNotFound {
			t.Errorf("get after delete returned %d, want 404", status)
		}
	})

	t.Run("UpdateWithoutContentKey", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		p := env.createProject(t, "Feature")
		s := env.createScript(t, p.ID, "Draft")

		var errResp dto.ErrorResponse
		status := env.do(t, http.MethodPut, "/api/scripts/"+s.ID, map[string]string{}, &errResp)
		if status != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", status)
		}
		if errResp.Error.Code != dto.ErrorCodeMissingField {
			t.Errorf("code = %s, want MISSING_FIELD", errResp.Error.Code)
		}

		// An explicit empty string is a valid overwrite.
		if status := env.do(t, http.MethodPut, "/api/scripts/"+s.ID, map[string]string{"content": ""}, nil); status != http.StatusOK {
			t.Errorf("empty content update returned %d", status)
		}
	})

	t.Run("SlugConflict", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		p := env.createProject(t, "Feature")
		env.createScript(t, p.ID, "The Heist")
		var errResp dto.ErrorResponse
		status := env.do(t, http.MethodPost, "/api/projects/"+p.ID+"/scripts", map[string]string{"title": "the HEIST!"}, &errResp)
		if status != http.StatusConflict {
			t.Fatalf("status = %d, want 409", status)
		}
		if errResp.Error.Code != dto.ErrorCodeConflict {
			t.Errorf("code = %s, want CONFLICT", errResp.Error.Code)
		}
	})

	t.Run("UnknownJSONField", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		p := env.createProject(t, "Feature")
		status := env.do(t, http.MethodPost, "/api/projects/"+p.ID+"/scripts", map[string]string{"title": "X", "bogus": "y"}, nil)
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400 for unknown field", status)
		}
	})
}

func TestVersionControlEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("Workflow", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		p := env.createProject(t, "Feature")
		s := env.createScript(t, p.ID, "Pilot")

		var st dto.RepoStatusResponse
		if status := env.do(t, http.MethodGet, "/api/projects/"+p.ID+"/git/status", nil, &st); status != http.StatusOK {
			t.Fatalf("status returned %d", status)
		}
		if !st.IsDirty || len(st.Untracked) != 1 {
			t.Errorf("status = %+v, want one untracked file", st)
		}

		var staged dto.StageFilesResponse
		if status := env.do(t, http.MethodPost, "/api/projects/"+p.ID+"/git/stage", map[string][]string{"files": {s.FilePath}}, &staged); status != http.StatusOK {
			t.Fatalf("stage returned %d", status)
		}
		if staged.Status != "success" || len(staged.StagedFiles) != 1 {
			t.Errorf("stage = %+v", staged)
		}

		var commit dto.CommitResponse
		if status := env.do(t, http.MethodPost, "/api/projects/"+p.ID+"/git/commit", map[string]string{"message": "Add pilot"}, &commit); status != http.StatusOK {
			t.Fatalf("commit returned %d", status)
		}
		if commit.Status != "success" || commit.Commit == nil || commit.Commit.Message != "Add pilot" {
			t.Fatalf("commit = %+v", commit)
		}

		// Committing again with a clean index is a distinct no-op outcome.
		// Reset the reused decode target: json.Unmarshal leaves fields
		// untouched when their key is absent from the response.
		commit = dto.CommitResponse{}
		if status := env.do(t, http.MethodPost, "/api/projects/"+p.ID+"/git/commit", map[string]string{"message": "Again"}, &commit); status != http.StatusOK {
			t.Fatalf("second commit returned %d", status)
		}
		if commit.Status != "no_changes" || commit.Commit != nil {
			t.Errorf("second commit = %+v, want no_changes", commit)
		}

		var history dto.HistoryResponse
		if status := env.do(t, http.MethodGet, "/api/projects/"+p.ID+"/git/history", nil, &history); status != http.StatusOK {
			t.Fatalf("history returned %d", status)
		}
		if len(history) != 1 || history[0].Message != "Add pilot" {
			t.Errorf("history = %+v", history)
		}

		// Historical read sees the committed content after a later edit.
		if status := env.do(t, http.MethodPut, "/api/scripts/"+s.ID, map[string]string{"content": "rewritten"}, nil); status != http.StatusOK {
			t.Fatalf("update returned %d", status)
		}
		var body dto.ScriptContentResponse
		path := fmt.Sprintf("/api/scripts/%s/at/%s", s.ID, history[0].SHA)
		if status := env.do(t, http.MethodGet, path, nil, &body); status != http.StatusOK {
			t.Fatalf("at-commit returned %d", status)
		}
		if body.Content != "Title: PILOT\n\nINT. SCENE - DAY\n\n" {
			t.Errorf("at-commit content = %q", body.Content)
		}
	})

	t.Run("HistoryLimit", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		p := env.createProject(t, "Feature")
		s := env.createScript(t, p.ID, "Pilot")
		for i, draft := range []string{"v1", "v2", "v3"} {
			if status := env.do(t, http.MethodPut, "/api/scripts/"+s.ID, map[string]string{"content": draft}, nil); status != http.StatusOK {
				t.Fatalf("update %d returned %d", i, status)
			}
			if status := env.do(t, http.MethodPost, "/api/projects/"+p.ID+"/git/stage", map[string][]string{"files": {s.FilePath}}, nil); status != http.StatusOK {
				t.Fatalf("stage %d returned %d", i, status)
			}
			if status := env.do(t, http.MethodPost, "/api/projects/"+p.ID+"/git/commit", map[string]string{"message": draft}, nil); status != http.StatusOK {
				t.Fatalf("commit %d returned %d", i, status)
			}
		}

		var history dto.HistoryResponse
		if status := env.do(t, http.MethodGet, "/api/projects/"+p.ID+"/git/history?limit=2", nil, &history); status != http.StatusOK {
			t.Fatalf("history returned %d", status)
		}
		if len(history) != 2 || history[0].Message != "v3" || history[1].Message != "v2" {
			t.Errorf("history = %+v, want two newest commits", history)
		}
	})

	t.Run("StageEmptyList", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		p := env.createProject(t, "Feature")
		var errResp dto.ErrorResponse
		status := env.do(t, http.MethodPost, "/api/projects/"+p.ID+"/git/stage", map[string][]string{"files": {}}, &errResp)
		if status != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", status)
		}
		if errResp.Error.Code != dto.ErrorCodeValidationFailed {
			t.Errorf("code = %s, want VALIDATION_FAILED", errResp.Error.Code)
		}
	})

	t.Run("UnknownProject", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		if status := env.do(t, http.MethodGet, "/api/projects/not-an-id/git/status", nil, nil); status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
	})
}

func TestParserEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("Preview", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		var out dto.PreviewResponse
		status := env.do(t, http.MethodPost, "/api/parser/preview", map[string]string{"fountain_text": "INT. LAB - NIGHT"}, &out)
		if status != http.StatusOK {
			t.Fatalf("preview returned %d", status)
		}
		if out.HTML != "<div>INT. LAB - NIGHT</div>" {
			t.Errorf("html = %q", out.HTML)
		}
	})

	t.Run("MissingText", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		var errResp dto.ErrorResponse
		status := env.do(t, http.MethodPost, "/api/parser/preview", map[string]string{}, &errResp)
		if status != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", status)
		}
		if errResp.Error.Code != dto.ErrorCodeMissingField {
			t.Errorf("code = %s, want MISSING_FIELD", errResp.Error.Code)
		}
	})

	t.Run("EmptyText", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		var out dto.PreviewResponse
		status := env.do(t, http.MethodPost, "/api/parser/preview", map[string]string{"fountain_text": ""}, &out)
		if status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if out.HTML != "" {
			t.Errorf("html = %q, want empty", out.HTML)
		}
	})
}
