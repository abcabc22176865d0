package normalizer

import (
	"regexp"
	"strings"

	"github.com/faultline/faultline/internal/model"
)

var servicePattern = regexp.MustCompile(`(?i)(?:service|microservice|app|worker)\s+([a-zA-Z0-9_-]+)`)

// componentKeywords maps infrastructure kinds to the words that suggest
// them in prose
var componentKeywords = map[string][]string{
	"database": {"postgres", "mysql", "mongodb", "db", "database"},
	"queue":    {"rabbitmq", "kafka", "sqs", "pubsub", "queue"},
	"cache":    {"redis", "memcached", "cache"},
}

// componentKinds fixes iteration order over componentKeywords
var componentKinds = []string{"database", "queue", "cache"}

// normalizeMarkdown splits a document into heading-keyed sections and
// extracts service and component mentions for the architecture heuristics
func (n *Normalizer) normalizeMarkdown(content string) *model.NormalizedArtifact {
	sections := make(map[string]string)
	currentSection := "General"

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "#") {
			if len(sections) >= n.limits.MaxSections {
				break
			}
			currentSection = strings.TrimSpace(strings.TrimLeft(line, "# "))
			sections[currentSection] = ""
		} else {
			sections[currentSection] = sections[currentSection] + line + "\n"
		}
	}

	return &model.NormalizedArtifact{
		Kind:       "markdown",
		Sections:   sections,
		Services:   extractServices(content),
		Components: n.extractComponents(content),
	}
}

func extractServices(content string) []string {
	seen := make(map[string]bool)
	var services []string

	for _, match := range servicePattern.FindAllStringSubmatch(content, -1) {
		name := match[1]
		if !seen[name] {
			seen[name] = true
			services = append(services, name)
		}
	}
	return services
}

func (n *Normalizer) extractComponents(content string) []model.Component {
	lower := strings.ToLower(content)
	var components []model.Component

	for _, kind := range componentKinds {
		if len(components) >= n.limits.MaxComponents {
			break
		}
		for _, word := range componentKeywords[kind] {
			if len(components) >= n.limits.MaxComponents {
				break
			}
			if containsWord(lower, word) {
				components = append(components, model.Component{Name: word, Type: kind})
			}
		}
	}
	return components
}

// containsWord reports whether word occurs in text on word boundaries
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
