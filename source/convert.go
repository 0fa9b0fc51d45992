package source

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/siherrmann/poetry/helper"
)

// ConvertExtensions are the document formats ConvertDocsToText turns into text files.
var ConvertExtensions = []string{".docx"}

// ConvertResult counts the outcome of a conversion run.
type ConvertResult struct {
	Converted int
	Failed    int
}

// ConvertDocsToText replaces every document below dir by a text file with
// the same name and the .txt extension. The source document is removed in
// any case, also if it could not be converted.
func ConvertDocsToText(dir string, logger *slog.Logger, metrics *helper.Metrics) (ConvertResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	result := ConvertResult{}

	folder, err := NewFolderSource(dir, ConvertExtensions, logger, metrics)
	if err != nil {
		return result, helper.NewError("convert documents", err)
	}
	paths, err := folder.Paths()
	if err != nil {
		return result, helper.NewError("convert documents", err)
	}

	for _, path := range paths {
		source := filepath.Join(dir, filepath.FromSlash(path))

		err := convertFile(source)
		if err != nil {
			result.Failed++
			metrics.DocumentFailed()
			logger.Error("Failed to convert document", slog.String("file", path), slog.Any("error", err))
		} else {
			result.Converted++
			metrics.DocumentRead()
		}

		if removeErr := os.Remove(source); removeErr != nil && !os.IsNotExist(removeErr) {
			return result, helper.NewError("remove document", removeErr)
		}
	}

	logger.Info("Converted documents", slog.Int("converted", result.Converted), slog.Int("failed", result.Failed))
	return result, nil
}

func convertFile(source string) error {
	content, err := os.ReadFile(source)
	if err != nil {
		return err
	}

	text, err := ExtractText(source, content)
	if err != nil {
		return err
	}

	target := strings.TrimSuffix(source, filepath.Ext(source)) + ".txt"
	return os.WriteFile(target, []byte(text), 0600)
}
