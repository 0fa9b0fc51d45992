package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/siherrmann/poetry/helper"
	"github.com/siherrmann/poetry/model"
)

// FolderSource reads the documents below a directory.
type FolderSource struct {
	Root       string
	Extensions []string
	matcher    glob.Glob
	log        *slog.Logger
	metrics    *helper.Metrics
}

// NewFolderSource creates a source for all files below root with one of the extensions.
// Extensions are matched case insensitive.
func NewFolderSource(root string, extensions []string, logger *slog.Logger, metrics *helper.Metrics) (*FolderSource, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, helper.NewError("open folder source", err)
	}
	if !info.IsDir() {
		return nil, helper.NewError("open folder source", fmt.Errorf("%s is not a directory", root))
	}

	matcher, err := ExtensionMatcher(extensions)
	if err != nil {
		return nil, helper.NewError("open folder source", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FolderSource{
		Root:       root,
		Extensions: extensions,
		matcher:    matcher,
		log:        logger,
		metrics:    metrics,
	}, nil
}

// ExtensionMatcher compiles a glob matching slash separated, lower-cased
// paths of any depth ending in one of the extensions.
func ExtensionMatcher(extensions []string) (glob.Glob, error) {
	if len(extensions) == 0 {
		return nil, fmt.Errorf("no document extensions given")
	}

	patterns := make([]string, len(extensions))
	for i, extension := range extensions {
		extension = strings.ToLower(strings.TrimSpace(extension))
		if !strings.HasPrefix(extension, ".") {
			extension = "." + extension
		}
		patterns[i] = glob.QuoteMeta(extension)
	}

	return glob.Compile("**{"+strings.Join(patterns, ",")+"}", '/')
}

// Paths returns the matching files relative to Root in lexical order.
func (s *FolderSource) Paths() ([]string, error) {
	paths := []string{}
	err := filepath.WalkDir(s.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		relative, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		relative = filepath.ToSlash(relative)
		if s.matcher.Match(strings.ToLower(relative)) {
			paths = append(paths, relative)
		}
		return nil
	})
	if err != nil {
		return nil, helper.NewError("list documents", err)
	}

	return paths, nil
}

// Documents extracts the text of every matching file.
func (s *FolderSource) Documents(ctx context.Context) ([]model.RawDocument, error) {
	paths, err := s.Paths()
	if err != nil {
		return nil, err
	}
	s.log.Info("Found documents", slog.String("root", s.Root), slog.Int("count", len(paths)))

	docs := make([]model.RawDocument, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, helper.NewError("read documents", err)
		}

		text, err := s.read(path)
		if err != nil {
			s.metrics.DocumentFailed()
			s.log.Error("Failed to extract document", slog.String("file", path), slog.Any("error", err))
			continue
		}
		s.metrics.DocumentRead()

		if text == "" {
			continue
		}
		docs = append(docs, model.RawDocument{Filename: path, Content: text})
	}

	return docs, nil
}

func (s *FolderSource) read(path string) (string, error) {
	content, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(path)))
	if err != nil {
		return "", err
	}
	return ExtractText(path, content)
}
