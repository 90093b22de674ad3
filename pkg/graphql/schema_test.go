package graphql

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helloSchema(t *testing.T) graphql.Schema {
	t.Helper()
	schema, err := NewSchema(graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{"name": &graphql.ArgumentConfig{Type: graphql.String}},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name, _ := p.Args["name"].(string)
					return "hello " + name, nil
				},
			},
		},
	}))
	require.NoError(t, err)
	return schema
}

func TestHandlerPost(t *testing.T) {
	h := Handler(helloSchema(t))
	body := `{"query":"query($n:String){ hello(name:$n) }","variables":{"n":"shop"}}`
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"hello":"hello shop"}}`, rec.Body.String())
}

func TestHandlerRejectsBadInput(t *testing.T) {
	h := Handler(helloSchema(t))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/graphql", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
