package persistence

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/felixbrock/ideaspark/internal/domain"
)

var csvHeader = []string{"id", "idea", "tagline", "improvement", "createdAt", "followUps"}

func toRecord(idea domain.Idea) []string {
	return []string{
		idea.Id,
		idea.Idea,
		idea.Tagline,
		idea.Improvement,
		idea.CreatedAt.Format(time.RFC3339),
		strconv.Itoa(len(idea.FollowUpQuestions)),
	}
}

// WriteCSV writes a header row followed by one row per idea.
func WriteCSV(w io.Writer, ideas []domain.Idea) error {
	writer := csv.NewWriter(w)

	err := writer.Write(csvHeader)
	if err != nil {
		return err
	}

	for _, idea := range ideas {
		err = writer.Write(toRecord(idea))
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportCSV replaces the file at path with a CSV export of ideas.
func ExportCSV(path string, ideas []domain.Idea) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return err
	}

	defer func() {
		err := file.Close()
		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	return WriteCSV(file, ideas)
}
