package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan/internal/converter/mapper"
	"floorplan/internal/converter/models"
	"floorplan/internal/converter/repository"
	"floorplan/internal/converter/storage"
)

const capture = `{
	"walls": [
		{"identifier": "w1", "dimensions": [2, 0.2, 2.5], "transform": [1,0,0,0, 0,1,0,0, 0,0,1,0, 1,0,0,1]},
		{"identifier": "w2", "dimensions": [3, 0.2, 2.5], "transform": [1,0,0,0, 0,1,0,0, 0,0,1,0, -1.5,0,0,1]}
	],
	"doors": [
		{"identifier": "d1", "parentIdentifier": "w1", "dimensions": [0.8, 0.1, 2], "transform": [1,0,0,0, 0,1,0,0, 0,0,1,0, 1,0,0,1]}
	],
	"sections": [{"label": "hall", "center": [0, 0, 0.5]}]
}`

func newApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "plans.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background()))

	h := NewHandler(
		mapper.New(mapper.DefaultOptions()),
		repo,
		storage.NewFileStorage(t.TempDir()),
		mapper.DefaultPalette(),
		zerolog.Nop(),
	)

	app := fiber.New()
	h.Register(app)
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestConvert(t *testing.T) {
	app := newApp(t)

	resp, body := do(t, app, postJSON("/convert", capture))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var result models.Result
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 2, result.Statistics.Walls)
	assert.Equal(t, 1, result.Statistics.Doors)
	assert.Equal(t, []string{"hall"}, result.Statistics.RoomNames)
	assert.InDelta(t, 5.0, result.Statistics.Perimeter, 1e-9)
	assert.NotEmpty(t, result.Scene.Primitives)
	assert.Empty(t, result.ID)
}

func TestConvert_Merge(t *testing.T) {
	app := newApp(t)

	resp, body := do(t, app, postJSON("/convert?merge=true", capture))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var result models.Result
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 1, result.Statistics.Walls)
	assert.InDelta(t, 5.0, result.Statistics.Perimeter, 1e-9)
}

func TestConvert_BadRequests(t *testing.T) {
	app := newApp(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"invalid json", "/convert", `{not json`},
		{"not an object", "/convert", `[1, 2]`},
		{"empty body", "/convert", ``},
		{"bad bool", "/convert?normalize=maybe", capture},
		{"bad width", "/render?wall_width=-1", capture},
		{"bad format", "/convert?format=dxf", capture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, postJSON(tt.path, tt.body))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var payload map[string]string
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.NotEmpty(t, payload["error"])
		})
	}
}

func TestConvert_Multipart(t *testing.T) {
	app := newApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "capture.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(capture))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/convert", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, body := do(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"walls":2`)
}

func TestConvert_PlannerFormat(t *testing.T) {
	app := newApp(t)

	resp, body := do(t, app, postJSON("/convert?format=planner", capture))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var scene models.PlannerScene
	require.NoError(t, json.Unmarshal(body, &scene))
	assert.Equal(t, "cm", scene.Unit)
	assert.Len(t, scene.Layers["layer-1"].Lines, 2)
	assert.Contains(t, scene.Layers["layer-1"].Holes, "d1")
}

func TestRender(t *testing.T) {
	app := newApp(t)

	resp, body := do(t, app, postJSON("/render?wall_width=30", capture))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(string(body), "<?xml"))
	assert.Contains(t, string(body), ">HALL</text>")
}

func TestRenderPNG(t *testing.T) {
	app := newApp(t)

	resp, body := do(t, app, postJSON("/render/png", capture))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, mapper.DefaultPNGWidth, img.Bounds().Dx())
}

func TestStoredPlans(t *testing.T) {
	app := newApp(t)

	resp, body := do(t, app, postJSON("/convert?store=true", capture))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var stored models.Result
	require.NoError(t, json.Unmarshal(body, &stored))
	require.NotEmpty(t, stored.ID)
	assert.Equal(t, "/plans/"+stored.ID, resp.Header.Get("Location"))

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/plans", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Plans []models.PlanSummary `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Plans, 1)
	assert.Equal(t, stored.ID, list.Plans[0].ID)
	assert.Equal(t, 2, list.Plans[0].Walls)

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/plans/"+stored.ID, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.Result
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, stored.Statistics, got.Statistics)

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/plans/"+stored.ID+"/svg", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "<svg")

	for i := 0; i < 2; i++ {
		resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/plans/"+stored.ID+"/png", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_, err := png.Decode(bytes.NewReader(body))
		require.NoError(t, err)
	}
}

func TestStoredPlans_Errors(t *testing.T) {
	app := newApp(t)

	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/plans/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/plans/"+uuid.NewString()+"/svg", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/plans/not-a-uuid/svg", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/plans?limit=zero", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStore_WithoutStorage(t *testing.T) {
	h := NewHandler(mapper.New(mapper.DefaultOptions()), nil, nil, mapper.DefaultPalette(), zerolog.Nop())
	app := fiber.New()
	h.Register(app)

	resp, _ := do(t, app, postJSON("/convert?store=true", capture))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/plans", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type failingStore struct {
	saved []string
}

func (s *failingStore) Save(_ context.Context, result *models.Result) (string, error) {
	s.saved = append(s.saved, result.ID)
	return "", errors.New("disk full")
}

func (s *failingStore) GetByID(context.Context, string) (*models.Result, error) {
	return nil, repository.ErrNotFound
}

func (s *failingStore) List(context.Context, int) ([]models.PlanSummary, error) {
	return nil, nil
}

func TestStore_RowFailureRemovesArtifacts(t *testing.T) {
	root := t.TempDir()
	files := storage.NewFileStorage(root)
	plans := &failingStore{}

	h := NewHandler(mapper.New(mapper.DefaultOptions()), plans, files, mapper.DefaultPalette(), zerolog.Nop())
	app := fiber.New()
	h.Register(app)

	resp, _ := do(t, app, postJSON("/convert?store=true", capture))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))

	require.Len(t, plans.saved, 1)
	dir, err := files.PlanDir(plans.saved[0])
	require.NoError(t, err)
	assert.NoDirExists(t, dir)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_ArtifactFailureLeavesNoRow(t *testing.T) {
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "plans.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background()))

	// A regular file as the storage root makes every artifact write fail.
	root := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(root, nil, 0o644))

	h := NewHandler(mapper.New(mapper.DefaultOptions()), repo, storage.NewFileStorage(root), mapper.DefaultPalette(), zerolog.Nop())
	app := fiber.New()
	h.Register(app)

	resp, _ := do(t, app, postJSON("/convert?store=true", capture))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	plans, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, plans)
}
