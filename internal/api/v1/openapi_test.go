package apiv1

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSpec(t *testing.T) *openapi3.T {
	t.Helper()

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile("../../../public/docs/v1/openapi.yml")
	require.NoError(t, err)
	return doc
}

func TestOpenAPISpecIsValid(t *testing.T) {
	doc := loadSpec(t)
	require.NoError(t, doc.Validate(context.Background()))
}

func TestOpenAPISpecCoversRegisteredRoutes(t *testing.T) {
	doc := loadSpec(t)

	for _, path := range []string{
		"/ping",
		"/company",
		"/billboards",
		"/contracts",
		"/contracts/{uuid}/placeholder-values",
	} {
		item := doc.Paths.Find(path)
		require.NotNilf(t, item, "path %s missing from spec", path)
		assert.NotNilf(t, item.Get, "path %s has no GET operation", path)
	}
}

func TestOpenAPISpecRequiresAPIKey(t *testing.T) {
	doc := loadSpec(t)

	require.Contains(t, doc.Components.SecuritySchemes, "ApiKeyAuth")
	scheme := doc.Components.SecuritySchemes["ApiKeyAuth"].Value
	require.NotNil(t, scheme)
	assert.Equal(t, "apiKey", scheme.Type)
	assert.Equal(t, "X-API-Key", scheme.Name)
}
