package service

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhijeet-gautam-07/rag-docs/types"
)

// pseudoPageSize is the character window used when a document carries no
// page structure and the whole text has to be cut into synthetic pages.
const pseudoPageSize = 200000

var pagesRe = regexp.MustCompile(`Pages:\s+(\d+)`)

// PageSource yields the plain-text pages of a document in order.
type PageSource interface {
	// Pages calls emit once per page, in page order. A page whose text
	// cannot be extracted is skipped with a warning, not an error; emit
	// returning an error stops the walk.
	Pages(ctx context.Context, filePath string, emit func(types.Page) error) error
}

// PDFService extracts per-page text from PDF files using the poppler
// command line tools.
type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

func (s *PDFService) Pages(ctx context.Context, filePath string, emit func(types.Page) error) error {
	totalPages, err := getNumPages(ctx, filePath)
	if err != nil {
		// No page structure; fall back to whole-document extraction cut
		// into fixed-size pseudo pages.
		log.Printf("Warning: no page count for %s, falling back to pseudo pages: %v", filePath, err)
		return s.pseudoPages(ctx, filePath, emit)
	}

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := extractPageText(ctx, filePath, pageNum)
		if err != nil {
			log.Printf("Warning: failed to extract text from page %d: %v", pageNum, err)
			continue
		}
		if err := emit(types.Page{Number: pageNum, Total: totalPages, Text: cleanText(text)}); err != nil {
			return err
		}
	}
	return nil
}

// pseudoPages extracts the whole document at once and windows it into
// synthetic pages so the rest of the pipeline keeps its per-page shape.
func (s *PDFService) pseudoPages(ctx context.Context, filePath string, emit func(types.Page) error) error {
	cmd := exec.CommandContext(ctx, "pdftotext", "-enc", "UTF-8", "-nopgbrk", filePath, "-")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("error running pdftotext: %w", err)
	}

	text := cleanText(out.String())
	if text == "" {
		return nil
	}
	total := (len(text) + pseudoPageSize - 1) / pseudoPageSize
	pageNum := 0
	for start := 0; start < len(text); {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := cutAtRune(text, start+pseudoPageSize)
		pageNum++
		if err := emit(types.Page{Number: pageNum, Total: total, Text: strings.TrimSpace(text[start:end])}); err != nil {
			return err
		}
		start = end
	}
	return nil
}

// extractPageText extracts one page with pdftotext.
func extractPageText(ctx context.Context, filePath string, pageNumber int) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext",
		"-f", strconv.Itoa(pageNumber),
		"-l", strconv.Itoa(pageNumber),
		"-enc", "UTF-8", "-nopgbrk",
		filePath, "-")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running pdftotext for page %d: %w", pageNumber, err)
	}
	return out.String(), nil
}

// getNumPages reads the page count from pdfinfo output.
func getNumPages(ctx context.Context, pdfPath string) (int, error) {
	cmd := exec.CommandContext(ctx, "pdfinfo", pdfPath)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("error running pdfinfo: %w", err)
	}

	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		if matches := pagesRe.FindStringSubmatch(scanner.Text()); len(matches) == 2 {
			return strconv.Atoi(matches[1])
		}
	}
	return 0, fmt.Errorf("unable to determine page count from pdfinfo")
}

// cleanText strips control characters and artifacts that PDF extraction
// tends to leave behind.
func cleanText(text string) string {
	replacements := map[string]string{
		"\u0000": "",   // Null character
		"\ufffd": "",   // Unicode replacement character
		"\u001b": "",   // Escape character
		"\r":     "",   // Carriage return
		"\f":     "\n", // Form feed to newline
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return strings.TrimSpace(cleaned)
}
