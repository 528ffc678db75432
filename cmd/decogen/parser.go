package main

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

type DecoratorAnnotation struct {
	logger      *zerolog.Logger
	description string
	properties  map[string]string
}

var knownProperties = []string{"named", "kind", "priority"}

var knownKinds = []string{"class", "method", "setter", "parameter"}

func (a DecoratorAnnotation) Named() (named string, found bool) {
	named, found = a.properties["named"]
	return named, found
}

// Kind returns the declared decorator kind, defaulting to "parameter".
func (a DecoratorAnnotation) Kind() (kind string, found bool) {
	kind, found = a.properties["kind"]
	if !found {
		return "parameter", false
	}
	if !contains(knownKinds, kind) {
		a.logger.Warn().Msgf("Unknown decorator kind: %s, falling back to parameter", kind)
		return "parameter", false
	}
	return kind, true
}

func (a DecoratorAnnotation) Priority() (priority int, found bool) {
	if priorityStr, exists := a.properties["priority"]; exists {
		if priority, err := strconv.Atoi(priorityStr); err == nil {
			return priority, true
		} else {
			a.logger.Warn().Msgf("Error parsing priority property: %s, skipping it", priorityStr)
		}
	}
	return 0, false
}

func (a DecoratorAnnotation) UnknownProperties() []string {
	var unknown []string
	for key := range a.properties {
		if !contains(knownProperties, key) {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

func parseDecoratorAnnotation(logger *zerolog.Logger, docText string) DecoratorAnnotation {
	lines := strings.Split(docText, "\n")

	var descriptionLines []string
	var annotationLine string

	// separate the @decorator line from the description
	for _, line := range lines {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, decoratorAnnotationTag) {
			annotationLine = line
		} else if line != "" && !strings.HasPrefix(line, "@") {
			descriptionLines = append(descriptionLines, line)
		}
	}

	return DecoratorAnnotation{
		logger:      logger,
		description: strings.TrimSpace(strings.Join(descriptionLines, "\n")),
		properties:  parseProperties(annotationLine, decoratorAnnotationTag),
	}
}

func parseProperties(line string, tag string) map[string]string {
	properties := make(map[string]string)

	if line == "" {
		return properties
	}

	content := strings.TrimPrefix(line, tag)
	content = strings.TrimSpace(content)

	if content == "" {
		return properties
	}

	// match key=value or key="value" patterns
	re := regexp.MustCompile(`(\w+)=(?:"([^"]*)"|(\w+))`)
	matches := re.FindAllStringSubmatch(content, -1)

	for _, match := range matches {
		key := match[1]
		// match[2] is quoted value, match[3] is unquoted value
		value := match[2]
		if value == "" {
			value = match[3]
		}
		properties[key] = value
	}

	return properties
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
