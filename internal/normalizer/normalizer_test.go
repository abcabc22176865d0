package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faultline/faultline/internal/model"
)

const validOpenAPIJSON = `{
  "openapi": "3.0.0",
  "info": {"title": "Orders API", "version": "1.0.0"},
  "paths": {
    "/v1/orders": {
      "get": {
        "parameters": [
          {"name": "page", "in": "query", "schema": {"type": "integer"}}
        ],
        "responses": {"200": {"description": "ok"}}
      },
      "post": {
        "security": [{"bearerAuth": []}],
        "responses": {"201": {"description": "created"}}
      }
    },
    "/v1/orders/{id}": {
      "delete": {
        "responses": {"204": {"description": "deleted"}}
      }
    }
  },
  "components": {
    "securitySchemes": {"bearerAuth": {"type": "http", "scheme": "bearer"}}
  }
}`

func TestNormalizeOpenAPIJSON(t *testing.T) {
	n := New(Limits{})

	artifact := n.Normalize(validOpenAPIJSON, model.ContentTypeOpenAPIJSON)

	assert.Equal(t, "openapi", artifact.Kind)
	assert.False(t, artifact.Degraded)
	assert.NotNil(t, artifact.Document)
	require.Len(t, artifact.Endpoints, 3)

	byKey := make(map[string]model.Endpoint)
	for _, ep := range artifact.Endpoints {
		byKey[ep.Method+" "+ep.Path] = ep
	}

	get := byKey["GET /v1/orders"]
	assert.False(t, get.Secured)
	assert.True(t, get.HasPagination)
	assert.True(t, get.HasVersioning)

	post := byKey["POST /v1/orders"]
	assert.True(t, post.Secured)
	assert.False(t, post.HasPagination)

	del := byKey["DELETE /v1/orders/{id}"]
	assert.False(t, del.Secured)
}

func TestNormalizeOpenAPIEndpointOrderIsStable(t *testing.T) {
	n := New(Limits{})

	first := n.Normalize(validOpenAPIJSON, model.ContentTypeOpenAPIJSON)
	for i := 0; i < 5; i++ {
		again := n.Normalize(validOpenAPIJSON, model.ContentTypeOpenAPIJSON)
		assert.Equal(t, first.Endpoints, again.Endpoints)
	}
}

func TestNormalizeOpenAPIEndpointCap(t *testing.T) {
	n := New(Limits{MaxEndpoints: 2})

	artifact := n.Normalize(validOpenAPIJSON, model.ContentTypeOpenAPIJSON)
	assert.Len(t, artifact.Endpoints, 2)
}

func TestNormalizeMalformedOpenAPIDegrades(t *testing.T) {
	n := New(Limits{})

	content := `this is not yaml: [
  "/users": broken
  "/users/{id}": also broken`

	artifact := n.Normalize(content, model.ContentTypeOpenAPIYAML)

	assert.True(t, artifact.Degraded)
	require.NotEmpty(t, artifact.Endpoints)
	for _, ep := range artifact.Endpoints {
		assert.Equal(t, "UNKNOWN", ep.Method)
		assert.True(t, ep.Secured)
	}
	assert.Equal(t, "/users", artifact.Endpoints[0].Path)
}

func TestNormalizeMarkdownSections(t *testing.T) {
	n := New(Limits{})

	content := "intro text\n# Security\nWe use OAuth2.\n## Deployment\nKubernetes on AWS.\n"

	artifact := n.Normalize(content, model.ContentTypeMarkdown)

	assert.Equal(t, "markdown", artifact.Kind)
	assert.False(t, artifact.Degraded)
	require.Contains(t, artifact.Sections, "General")
	require.Contains(t, artifact.Sections, "Security")
	require.Contains(t, artifact.Sections, "Deployment")
	assert.Contains(t, artifact.Sections["Security"], "OAuth2")
	assert.Contains(t, artifact.Sections["Deployment"], "Kubernetes")
}

func TestNormalizeMarkdownServicesAndComponents(t *testing.T) {
	n := New(Limits{})

	content := `# Architecture
The service billing talks to the service payments over gRPC.
State lives in postgres, events flow through kafka and hot reads hit redis.`

	artifact := n.Normalize(content, model.ContentTypeMarkdown)

	assert.Equal(t, []string{"billing", "payments"}, artifact.Services)

	kinds := make(map[string]bool)
	for _, c := range artifact.Components {
		kinds[c.Type] = true
	}
	assert.True(t, kinds["database"])
	assert.True(t, kinds["queue"])
	assert.True(t, kinds["cache"])
}

func TestNormalizeMarkdownWordBoundaries(t *testing.T) {
	n := New(Limits{})

	// "dbname" must not count as a db mention
	artifact := n.Normalize("# Setup\nset the dbname variable", model.ContentTypeMarkdown)
	assert.Empty(t, artifact.Components)
}

func TestNormalizeMarkdownSectionCap(t *testing.T) {
	n := New(Limits{MaxSections: 2})

	content := "# One\na\n# Two\nb\n# Three\nc\n"
	artifact := n.Normalize(content, model.ContentTypeMarkdown)
	assert.LessOrEqual(t, len(artifact.Sections), 2)
}

func TestNormalizeEmptyMarkdown(t *testing.T) {
	n := New(Limits{})

	artifact := n.Normalize("", model.ContentTypeMarkdown)
	assert.Equal(t, "markdown", artifact.Kind)
	assert.Empty(t, artifact.Services)
	assert.Empty(t, artifact.Components)
}
