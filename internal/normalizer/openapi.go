package normalizer

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/faultline/faultline/internal/model"
)

var fallbackPathPattern = regexp.MustCompile(`['"]?(/[a-zA-Z0-9/_{}-]+)['"]?:`)

var paginationParams = map[string]bool{
	"page":   true,
	"offset": true,
	"limit":  true,
	"cursor": true,
}

// normalizeOpenAPI parses an OpenAPI document and inventories its
// operations. A document the parser rejects falls back to regex path
// extraction with Degraded set.
func (n *Normalizer) normalizeOpenAPI(content string, contentType model.ContentType) *model.NormalizedArtifact {
	artifact := &model.NormalizedArtifact{Kind: "openapi"}

	if contentType == model.ContentTypeOpenAPIJSON {
		var doc any
		if err := json.Unmarshal([]byte(content), &doc); err == nil {
			artifact.Document = doc
		}
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData([]byte(content))
	if err != nil || doc.Paths == nil || doc.Paths.Len() == 0 {
		artifact.Endpoints = n.fallbackEndpoints(content)
		artifact.Degraded = true
		return artifact
	}

	docSecured := len(doc.Security) > 0

	paths := doc.Paths.Map()
	sortedPaths := make([]string, 0, len(paths))
	for path := range paths {
		sortedPaths = append(sortedPaths, path)
	}
	sort.Strings(sortedPaths)

	for _, path := range sortedPaths {
		if len(artifact.Endpoints) >= n.limits.MaxEndpoints {
			break
		}

		ops := paths[path].Operations()
		methods := make([]string, 0, len(ops))
		for method := range ops {
			methods = append(methods, method)
		}
		sort.Strings(methods)

		for _, method := range methods {
			if len(artifact.Endpoints) >= n.limits.MaxEndpoints {
				break
			}
			op := ops[method]

			secured := docSecured || (op.Security != nil && len(*op.Security) > 0)

			hasPagination := false
			for _, param := range op.Parameters {
				if param.Value != nil && paginationParams[strings.ToLower(param.Value.Name)] {
					hasPagination = true
					break
				}
			}

			hasVersioning := strings.Contains(path, "/v") ||
				(doc.Info != nil && strings.Contains(strings.ToLower(doc.Info.Version), "version"))

			artifact.Endpoints = append(artifact.Endpoints, model.Endpoint{
				Path:          path,
				Method:        strings.ToUpper(method),
				Secured:       secured,
				HasPagination: hasPagination,
				HasVersioning: hasVersioning,
			})
		}
	}

	return artifact
}

// fallbackEndpoints extracts path-looking keys from an unparseable
// document. Methods are unknown and endpoints default to secured so the
// degraded pass does not invent security findings.
func (n *Normalizer) fallbackEndpoints(content string) []model.Endpoint {
	var endpoints []model.Endpoint

	matches := fallbackPathPattern.FindAllStringSubmatch(content, -1)
	for _, match := range matches {
		if len(endpoints) >= n.limits.MaxEndpoints {
			break
		}
		endpoints = append(endpoints, model.Endpoint{
			Path:    match[1],
			Method:  "UNKNOWN",
			Secured: true,
		})
	}
	return endpoints
}
