package source

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/siherrmann/poetry/helper"
	"golang.org/x/text/encoding/charmap"
)

// ExtractText returns the text of a document by the extension of its name.
// Plain text that is not valid UTF-8 is read as Windows-1252.
func ExtractText(name string, content []byte) (string, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".txt":
		return decodeText(content)
	case ".docx":
		return extractDocx(content)
	}
	return "", fmt.Errorf("%w: %s", helper.ErrUnsupportedFormat, name)
}

func decodeText(content []byte) (string, error) {
	if utf8.Valid(content) {
		return string(content), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}
	return string(decoded), nil
}

// extractDocx returns the paragraphs of word/document.xml, one per line.
func extractDocx(content []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}

		document, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document: %w", err)
		}
		defer document.Close()

		return documentText(document)
	}

	return "", fmt.Errorf("docx archive has no word/document.xml")
}

func documentText(r io.Reader) (string, error) {
	var b strings.Builder
	decoder := xml.NewDecoder(r)
	inText := false
	paragraphs := 0

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document: %w", err)
		}

		switch element := token.(type) {
		case xml.StartElement:
			switch element.Name.Local {
			case "p":
				if paragraphs > 0 {
					b.WriteByte('\n')
				}
				paragraphs++
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			if element.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(element)
			}
		}
	}

	return b.String(), nil
}
