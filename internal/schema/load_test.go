package schema_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/gqlint/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
)

const userSDL = `
type Query {
  user(id: ID!): User
}

type User {
  id: ID!
  name: String
}
`

const postSDL = `
type Post {
  title: String
}

extend type Query {
  posts: [Post]
}
`

const userIntrospection = `{
  "data": {
    "__schema": {
      "queryType": {"name": "Query"},
      "mutationType": null,
      "subscriptionType": null,
      "types": [
        {"kind": "SCALAR", "name": "String", "fields": null},
        {"kind": "SCALAR", "name": "ID", "fields": null},
        {"kind": "SCALAR", "name": "Int", "fields": null},
        {"kind": "OBJECT", "name": "__Schema", "fields": []},
        {"kind": "SCALAR", "name": "DateTime", "description": "ISO-8601 \"date\""},
        {
          "kind": "OBJECT", "name": "Query",
          "fields": [
            {
              "name": "user",
              "args": [{"name": "id", "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "ID"}}, "defaultValue": null}],
              "type": {"kind": "OBJECT", "name": "User"}
            },
            {
              "name": "search",
              "args": [
                {"name": "filter", "type": {"kind": "INPUT_OBJECT", "name": "Filter"}, "defaultValue": null},
                {"name": "first", "type": {"kind": "SCALAR", "name": "Int"}, "defaultValue": "10"}
              ],
              "type": {"kind": "LIST", "name": null, "ofType": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "UNION", "name": "SearchResult"}}}
            }
          ],
          "interfaces": []
        },
        {
          "kind": "INTERFACE", "name": "Node",
          "fields": [{"name": "id", "args": [], "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "ID"}}}],
          "interfaces": [],
          "possibleTypes": [{"name": "User"}]
        },
        {
          "kind": "OBJECT", "name": "User", "description": "A person",
          "fields": [
            {"name": "id", "args": [], "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "ID"}}},
            {"name": "name", "args": [], "type": {"kind": "SCALAR", "name": "String"}},
            {"name": "login", "args": [], "type": {"kind": "SCALAR", "name": "String"}, "isDeprecated": true, "deprecationReason": "Use name"},
            {"name": "role", "args": [], "type": {"kind": "ENUM", "name": "Role"}},
            {"name": "joined", "args": [], "type": {"kind": "SCALAR", "name": "DateTime"}}
          ],
          "interfaces": [{"name": "Node"}]
        },
        {"kind": "UNION", "name": "SearchResult", "possibleTypes": [{"name": "User"}]},
        {
          "kind": "ENUM", "name": "Role",
          "enumValues": [{"name": "ADMIN"}, {"name": "GUEST", "isDeprecated": true, "deprecationReason": null}]
        },
        {
          "kind": "INPUT_OBJECT", "name": "Filter",
          "inputFields": [{"name": "role", "type": {"kind": "ENUM", "name": "Role"}, "defaultValue": "ADMIN"}]
        }
      ],
      "directives": [
        {"name": "skip", "locations": ["FIELD"], "args": [{"name": "if", "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "Boolean"}}}]},
        {"name": "cached", "locations": ["FIELD", "QUERY"], "args": [{"name": "ttl", "type": {"kind": "SCALAR", "name": "Int"}, "defaultValue": "60"}], "isRepeatable": false}
      ]
    }
  }
}`

func writeSchema(t *testing.T, dir, name, sdl string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(sdl), 0o600))
}

func TestLoadNothingConfigured(t *testing.T) {
	s, err := schema.Load(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	assert.Nil(t, s, "no schema means syntax-only linting")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "schema.graphql", userSDL)

	s, err := schema.Load(context.Background(), dir, []string{"schema.graphql"})
	require.NoError(t, err)
	require.NotNil(t, s)
	require.NotNil(t, s.Query)
	assert.NotNil(t, s.Query.Fields.ForName("user"))
	assert.NotNil(t, s.Types["User"])
}

func TestLoadGlob(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "graphql/user.graphql", userSDL)
	writeSchema(t, dir, "graphql/nested/post.graphql", postSDL)

	s, err := schema.Load(context.Background(), dir, []string{"graphql/**/*.graphql"})
	require.NoError(t, err)
	assert.NotNil(t, s.Types["Post"])
	assert.NotNil(t, s.Query.Fields.ForName("posts"))
}

func TestLoadIntrospectionFile(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "schema.json", userIntrospection)

	s, err := schema.Load(context.Background(), dir, []string{"schema.json"})
	require.NoError(t, err)
	require.NotNil(t, s.Query)
	assert.Equal(t, "Query", s.Query.Name)

	user := s.Types["User"]
	require.NotNil(t, user)
	assert.Equal(t, "A person", user.Description)
	assert.Equal(t, []string{"Node"}, user.Interfaces)
	require.NotNil(t, user.Fields.ForName("login"))
	assert.NotNil(t, user.Fields.ForName("login").Directives.ForName("deprecated"))
	assert.Equal(t, "DateTime", user.Fields.ForName("joined").Type.Name())

	search := s.Query.Fields.ForName("search")
	require.NotNil(t, search)
	assert.Equal(t, "[SearchResult!]", search.Type.String())
	first := search.Arguments.ForName("first")
	require.NotNil(t, first)
	assert.Equal(t, "10", first.DefaultValue.String())

	assert.Len(t, s.Types["Role"].EnumValues, 2)
	assert.Equal(t, []string{"User"}, typeNames(s.GetPossibleTypes(s.Types["SearchResult"])))
	assert.NotNil(t, s.Types["Filter"].Fields.ForName("role"))

	cached := s.Directives["cached"]
	require.NotNil(t, cached)
	assert.Len(t, cached.Locations, 2)
}

func TestLoadIntrospectionBareSchema(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "schema.json", `{"__schema": {
  "queryType": {"name": "Root"},
  "types": [{"kind": "OBJECT", "name": "Root", "fields": [{"name": "ping", "args": [], "type": {"kind": "SCALAR", "name": "String"}}]}],
  "directives": []
}}`)

	s, err := schema.Load(context.Background(), dir, []string{"schema.json"})
	require.NoError(t, err)
	require.NotNil(t, s.Query)
	assert.Equal(t, "Root", s.Query.Name)
}

func TestLoadUnavailable(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "broken.graphql", "type Query {")
	writeSchema(t, dir, "empty.json", `{"data": {}}`)
	writeSchema(t, dir, "malformed.json", `{"data": `)

	tests := []struct {
		name  string
		specs []string
	}{
		{"missing file", []string{"nope.graphql"}},
		{"glob matching nothing", []string{"**/*.gql"}},
		{"invalid SDL", []string{"broken.graphql"}},
		{"JSON without __schema", []string{"empty.json"}},
		{"malformed JSON", []string{"malformed.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := schema.Load(context.Background(), dir, tt.specs)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, errors.Is(err, schema.ErrSchemaUnavailable))

			var unavailable *schema.UnavailableError
			require.True(t, errors.As(err, &unavailable))
			assert.NotEmpty(t, unavailable.Source)
			assert.Contains(t, err.Error(), "Suggestion")
		})
	}
}

func TestLoadRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/schema.graphql":
			_, _ = w.Write([]byte(userSDL))
		case "/introspection":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(userIntrospection))
		case "/errors":
			_, _ = w.Write([]byte(`{"errors": [{"message": "introspection disabled"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	loader := &schema.Loader{Client: srv.Client()}

	t.Run("SDL", func(t *testing.T) {
		s, err := loader.Load(context.Background(), []string{srv.URL + "/schema.graphql"})
		require.NoError(t, err)
		assert.NotNil(t, s.Types["User"])
	})

	t.Run("not found", func(t *testing.T) {
		_, err := loader.Load(context.Background(), []string{srv.URL + "/missing"})
		assert.True(t, errors.Is(err, schema.ErrSchemaUnavailable))
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("introspection JSON", func(t *testing.T) {
		s, err := loader.Load(context.Background(), []string{srv.URL + "/introspection"})
		require.NoError(t, err)
		assert.NotNil(t, s.Types["User"])
		assert.NotNil(t, s.Query.Fields.ForName("search"))
	})

	t.Run("introspection errors", func(t *testing.T) {
		_, err := loader.Load(context.Background(), []string{srv.URL + "/errors"})
		assert.True(t, errors.Is(err, schema.ErrSchemaUnavailable))
		assert.Contains(t, err.Error(), "introspection disabled")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := loader.Load(ctx, []string{srv.URL + "/schema.graphql"})
		assert.True(t, errors.Is(err, schema.ErrSchemaUnavailable))
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func typeNames(defs []*ast.Definition) []string {
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}
