package services

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"mime"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"

	// minReadableChars is the floor below which extracted PDF/DOCX text is
	// treated as unreadable.
	minReadableChars = 10
)

var allowedMimeTypes = map[string]string{
	MimePDF:  ".pdf",
	MimeDOCX: ".docx",
	MimeText: ".txt",
}

// Upload is a resume file as received from the caller.
type Upload struct {
	FileName string
	MimeType string
	Size     int64
	Content  io.Reader
}

type DocumentMetadata struct {
	FileName  string
	FileSize  int64
	MimeType  string
	PageCount int
}

type ExtractedDocument struct {
	Text     string
	Metadata DocumentMetadata
}

type DocumentExtractor interface {
	Extract(ctx context.Context, upload Upload) (*ExtractedDocument, error)
}

type documentExtractor struct {
	storage     StorageService
	maxFileSize int64
	logger      zerolog.Logger
}

func NewDocumentExtractor(storage StorageService, maxFileSize int64, logger zerolog.Logger) DocumentExtractor {
	return &documentExtractor{
		storage:     storage,
		maxFileSize: maxFileSize,
		logger:      logger.With().Str("component", "extractor").Logger(),
	}
}

// NormalizeMimeType strips parameters such as charset and lowercases the type.
func NormalizeMimeType(mimeType string) string {
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mediaType
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// IsSupportedMimeType reports whether uploads of this type can be extracted.
func IsSupportedMimeType(mimeType string) bool {
	_, ok := allowedMimeTypes[NormalizeMimeType(mimeType)]
	return ok
}

// Extract implements DocumentExtractor. Type and size are checked before any
// byte of the upload is read.
func (d *documentExtractor) Extract(ctx context.Context, upload Upload) (*ExtractedDocument, error) {
	mimeType := NormalizeMimeType(upload.MimeType)
	ext, ok := allowedMimeTypes[mimeType]
	if !ok {
		return nil, ErrUnsupportedFormat(upload.MimeType)
	}

	if upload.Size > d.maxFileSize {
		return nil, ErrFileTooLarge(upload.Size, d.maxFileSize)
	}

	if err := ctx.Err(); err != nil {
		return nil, ErrInternal(err)
	}

	filePath, err := d.storage.SaveTemp(io.LimitReader(upload.Content, d.maxFileSize+1), ext)
	if err != nil {
		return nil, ErrInternal(err)
	}
	defer func() {
		if err := d.storage.DeleteFile(filePath); err != nil {
			d.logger.Warn().Err(err).Str("path", filePath).Msg("⚠️  Failed to remove temp upload")
		}
	}()

	// Size may be under-reported by the caller; trust the bytes on disk.
	if info, err := os.Stat(filePath); err == nil && info.Size() > d.maxFileSize {
		return nil, ErrFileTooLarge(info.Size(), d.maxFileSize)
	}

	doc := &ExtractedDocument{
		Metadata: DocumentMetadata{
			FileName: upload.FileName,
			FileSize: upload.Size,
			MimeType: mimeType,
		},
	}

	switch mimeType {
	case MimePDF:
		text, pages, err := extractPDF(filePath)
		if err != nil {
			return nil, ErrExtractionFailed("PDF", err)
		}
		doc.Text = text
		doc.Metadata.PageCount = pages
	case MimeDOCX:
		text, err := extractDOCX(filePath)
		if err != nil {
			return nil, ErrExtractionFailed("DOCX", err)
		}
		doc.Text = text
	case MimeText:
		text, err := extractPlainText(filePath)
		if err != nil {
			return nil, ErrExtractionFailed("TXT", err)
		}
		doc.Text = text
		return doc, nil
	}

	if utf8.RuneCountInString(strings.TrimSpace(doc.Text)) < minReadableChars {
		return nil, ErrExtractionFailed(formatName(mimeType), fmt.Errorf("no readable text content found"))
	}

	d.logger.Debug().
		Str("file", upload.FileName).
		Str("mime", mimeType).
		Int("chars", len(doc.Text)).
		Msg("📄 Document extracted")

	return doc, nil
}

func formatName(mimeType string) string {
	switch mimeType {
	case MimePDF:
		return "PDF"
	case MimeDOCX:
		return "DOCX"
	default:
		return "TXT"
	}
}

func extractPDF(filePath string) (text string, pages int, err error) {
	// The pdf package panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return CleanText(textBuilder.String()), totalPage, nil
}

func extractDOCX(filePath string) (string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer r.Close()

	return docxPlainText(r.Editable().GetContent())
}

// docxPlainText reduces a WordprocessingML body to its paragraph text.
func docxPlainText(body string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(body))
	decoder.Strict = false

	var sb strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read DOCX body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br", "cr":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return CleanText(sb.String()), nil
}

func extractPlainText(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}

	text := strings.TrimPrefix(string(data), "\ufeff")
	return strings.ToValidUTF8(text, "\uFFFD"), nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	cleanedLines := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
