package schemaapi_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"tablekeeper/core/cluster/mocks"
	"tablekeeper/core/schema"
	"tablekeeper/feature/schemaapi"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func spec(name string) schema.ColumnFamilySpec {
	return schema.ColumnFamilySpec{
		Name:              name,
		MaxVersions:       schema.DefaultMaxVersions,
		Compression:       schema.DefaultCompression,
		BlockCacheEnabled: true,
		BlockSize:         schema.DefaultBlockSize,
		BloomFilter:       schema.DefaultBloomFilter,
	}
}

func desired(name string, families ...schema.ColumnFamilySpec) schema.TableSchema {
	t := schema.TableSchema{Name: name, Families: make(map[string]schema.ColumnFamilySpec, len(families))}
	for _, f := range families {
		t.Families[f.Name] = f
	}
	return t
}

func newApp(catalog *mocks.Catalog, tables []schema.TableSchema) *fiber.App {
	app := fiber.New()
	feature := schemaapi.NewFeature(catalog, tables, zap.NewNop())
	if err := feature.Load(app); err != nil {
		panic(err)
	}
	return app
}

func decode(t *testing.T, resp io.Reader, out any) {
	t.Helper()
	body, err := io.ReadAll(resp)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out))
}

func TestHandleListTables(t *testing.T) {
	catalog := mocks.NewCatalog()
	catalog.Seed("users", spec("info"))
	app := newApp(catalog, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/schema/tables", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entries []struct {
		Name     string   `json:"name"`
		Families []string `json:"families"`
	}
	decode(t, resp.Body, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "users", entries[0].Name)
	assert.Equal(t, []string{"info"}, entries[0].Families)
}

func TestHandlePlan(t *testing.T) {
	catalog := mocks.NewCatalog()
	catalog.Seed("users", spec("info"), spec("legacy"))
	tables := []schema.TableSchema{
		desired("users", spec("info"), spec("stats")),
		desired("audit", spec("trail")),
	}
	app := newApp(catalog, tables)

	resp, err := app.Test(httptest.NewRequest("GET", "/schema/plan", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entries []struct {
		Table  string   `json:"table"`
		Exists bool     `json:"exists"`
		Add    []string `json:"add"`
		Delete []string `json:"delete"`
	}
	decode(t, resp.Body, &entries)
	require.Len(t, entries, 2)
	assert.Equal(t, "users", entries[0].Table)
	assert.True(t, entries[0].Exists)
	assert.Equal(t, []string{"stats"}, entries[0].Add)
	assert.Equal(t, []string{"legacy"}, entries[0].Delete)
	assert.False(t, entries[1].Exists)

	assert.Equal(t, []string{"list"}, catalog.Calls, "plan must not mutate the cluster")
}

func TestHandleReconcile(t *testing.T) {
	catalog := mocks.NewCatalog()
	tables := []schema.TableSchema{desired("audit", spec("trail"))}
	app := newApp(catalog, tables)

	resp, err := app.Test(httptest.NewRequest("POST", "/schema/reconcile", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Results []struct {
			Table   string `json:"table"`
			Outcome string `json:"outcome"`
		} `json:"results"`
		Summary map[string]int `json:"summary"`
	}
	decode(t, resp.Body, &body)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "created", body.Results[0].Outcome)
	assert.Equal(t, 1, body.Summary["created"])

	_, ok := catalog.Table("audit")
	assert.True(t, ok)
}

func TestHandleReconcile_NoCreate(t *testing.T) {
	catalog := mocks.NewCatalog()
	tables := []schema.TableSchema{desired("audit", spec("trail"))}
	app := newApp(catalog, tables)

	resp, err := app.Test(httptest.NewRequest("POST", "/schema/reconcile?no_create=true", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, ok := catalog.Table("audit")
	assert.False(t, ok)
	assert.Equal(t, []string{"list"}, catalog.Calls)
}

func TestHandleListTables_CommunicationFailure(t *testing.T) {
	catalog := mocks.NewCatalog()
	catalog.FailNext["list"] = assert.AnError
	app := newApp(catalog, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/schema/tables", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}
