// Package docs embeds the stk documentation topics.
package docs

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed *.md
var docs embed.FS

// index is the topic listing all the others.
const index = "readme"

// Topic is a documentation page.
type Topic struct {
	Name  string
	Title string
}

// Get returns the content of a documentation topic. "*" returns all topics
// concatenated, and "" the index.
func Get(topic string) (string, error) {
	switch topic {
	case "*":
		all, err := Names()
		if err != nil {
			return "", err
		}
		return Concat(all...)
	case "":
		topic = index
	}

	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", topic, err)
	}
	return string(content), nil
}

// Concat returns the content of several topics, separated by a blank line.
func Concat(topics ...string) (string, error) {
	var b bytes.Buffer
	for _, topic := range topics {
		content, err := Get(topic)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Names returns the sorted names of all topics, the index excluded.
func Names() ([]string, error) {
	files, err := fs.Glob(docs, "*.md")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, file := range files {
		if name := strings.TrimSuffix(path.Base(file), ".md"); name != index {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// List returns all topics with their title.
func List() ([]Topic, error) {
	names, err := Names()
	if err != nil {
		return nil, err
	}
	topics := make([]Topic, 0, len(names))
	for _, name := range names {
		content, err := docs.ReadFile(name + ".md")
		if err != nil {
			return nil, err
		}
		topics = append(topics, Topic{Name: name, Title: title(content)})
	}
	return topics, nil
}

// title returns the text of the first heading of a markdown document.
func title(content []byte) string {
	root := goldmark.DefaultParser().Parse(text.NewReader(content))
	var b strings.Builder
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			for c := h.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					b.Write(t.Segment.Value(content))
				}
			}
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
