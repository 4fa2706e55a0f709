package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type operation struct {
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Parameters  []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"parameters"`
	Responses map[string]json.RawMessage `json:"responses"`
}

type annotated struct {
	summary     string
	description string
	tag         string
	params      map[string]string
	statuses    []string
	path        string
	method      string
}

// parseAnnotations collects the godoc blocks of one handler file.
func parseAnnotations(t *testing.T, file string) []annotated {
	t.Helper()

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()

	var out []annotated
	cur := annotated{params: map[string]string{}}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "// @") {
			continue
		}
		key, rest, _ := strings.Cut(strings.TrimPrefix(line, "// @"), " ")
		switch key {
		case "Summary":
			cur.summary = rest
		case "Description":
			cur.description = rest
		case "Tags":
			cur.tag = rest
		case "Param":
			fields := strings.Fields(rest)
			if i := strings.Index(rest, `"`); i >= 0 && len(fields) > 0 {
				desc, err := strconv.Unquote(rest[i:])
				require.NoError(t, err)
				cur.params[fields[0]] = desc
			}
		case "Success", "Failure":
			cur.statuses = append(cur.statuses, strings.Fields(rest)[0])
		case "Router":
			fields := strings.Fields(rest)
			cur.path = fields[0]
			cur.method = strings.Trim(fields[1], "[]")
			out = append(out, cur)
			cur = annotated{params: map[string]string{}}
		}
	}
	require.NoError(t, sc.Err())
	return out
}

func TestDocsMatchHandlerAnnotations(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]operation `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	files, err := filepath.Glob("../internal/*/adapters/http/fiber/handler.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	seen := 0
	for _, file := range files {
		for _, a := range parseAnnotations(t, file) {
			seen++
			op, ok := doc.Paths[a.path][a.method]
			require.Truef(t, ok, "%s %s missing from docs", a.method, a.path)

			assert.Equal(t, a.summary, op.Summary, a.path)
			assert.Equal(t, a.description, op.Description, a.path)
			assert.Equal(t, []string{a.tag}, op.Tags, a.path)

			params := map[string]string{}
			for _, p := range op.Parameters {
				params[p.Name] = p.Description
			}
			assert.Equal(t, a.params, params, a.path)

			statuses := make([]string, 0, len(op.Responses))
			for code := range op.Responses {
				statuses = append(statuses, code)
			}
			assert.ElementsMatch(t, a.statuses, statuses, a.path)
		}
	}
	assert.Len(t, doc.Paths, seen)
}

func TestDocsSearchSummary(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]operation `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	root := doc.Paths["/"]["get"]
	assert.Equal(t, "Full text search", root.Summary)
	require.Len(t, root.Parameters, 1)
	assert.Equal(t, "Search text", root.Parameters[0].Description)
}
