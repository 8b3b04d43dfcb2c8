package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// docxText reads word/document.xml from the DOCX archive and concatenates the
// text runs, one line per paragraph. Tables are flattened the same way since
// their cells also contain w:p paragraphs.
func docxText(content []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	data, err := readArchiveFile(reader, "word/document.xml")
	if err != nil {
		return "", err
	}

	return collectRuns(data, "t", "p")
}

// pptxText walks the slide XML parts in order, prefixing each slide's text
// with its number.
func pptxText(content []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pptx archive: %w", err)
	}

	var slides []string
	for _, f := range reader.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides = append(slides, f.Name)
		}
	}
	// Zip entries are not ordered; slide1.xml .. slideN.xml sort by number.
	sort.Slice(slides, func(i, j int) bool {
		return slideNumber(slides[i]) < slideNumber(slides[j])
	})

	var b strings.Builder
	for i, name := range slides {
		data, err := readArchiveFile(reader, name)
		if err != nil {
			return "", err
		}
		text, err := collectRuns(data, "t", "br")
		if err != nil {
			return "", fmt.Errorf("slide %s: %w", name, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(&b, "Slide %d:\n%s\n\n", i+1, strings.TrimSpace(text))
	}
	return b.String(), nil
}

func slideNumber(name string) int {
	digits := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml")
	n := 0
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func readArchiveFile(reader *zip.Reader, name string) ([]byte, error) {
	for _, f := range reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s missing from archive", name)
}

// collectRuns streams the XML and gathers character data inside textElem
// elements, emitting a newline whenever breakElem closes.
func collectRuns(data []byte, textElem, breakElem string) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var b strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == textElem {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case textElem:
				inText = false
			case breakElem:
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
