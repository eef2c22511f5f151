package template

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nvasko/loom/internal/parse"
)

// LoadMarkdown reads a prompt document where each "### section name" header
// opens a template and the text below it is the body. Header names are
// lowercased with spaces replaced by underscores. A shape may be declared in
// square brackets after the name:
//
//	### capability_scripts [json_array]
//
// Sections without a declaration default to plain_text.
func LoadMarkdown(r io.Reader) (*Store, error) {
	store := NewStore()

	var (
		current *Template
		lines   []string
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		current.Body = strings.TrimSpace(strings.Join(lines, "\n"))
		if err := store.Add(current); err != nil {
			return err
		}
		current = nil
		lines = nil
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "### ") {
			if err := flush(); err != nil {
				return nil, err
			}
			name, shape, err := parseHeader(strings.TrimPrefix(line, "### "))
			if err != nil {
				return nil, err
			}
			current = &Template{Name: name, Shape: shape}
			continue
		}
		if current != nil {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading prompt document: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return store, nil
}

// LoadMarkdownFile is LoadMarkdown for a path on disk.
func LoadMarkdownFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening prompt document: %w", err)
	}
	defer f.Close()
	return LoadMarkdown(f)
}

func parseHeader(header string) (string, parse.Shape, error) {
	header = strings.TrimSpace(header)
	shape := parse.PlainText

	if i := strings.Index(header, "["); i >= 0 {
		j := strings.Index(header[i:], "]")
		if j < 0 {
			return "", "", fmt.Errorf("unterminated shape declaration in header %q", header)
		}
		declared := parse.Shape(strings.TrimSpace(header[i+1 : i+j]))
		if !parse.ValidShape(declared) {
			return "", "", fmt.Errorf("unknown shape %q in header %q", declared, header)
		}
		shape = declared
		header = strings.TrimSpace(header[:i])
	}

	name := strings.ToLower(header)
	name = strings.Join(strings.Fields(name), "_")
	if name == "" {
		return "", "", fmt.Errorf("empty template name in header")
	}
	return name, shape, nil
}
