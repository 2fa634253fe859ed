package usecase

import (
	"path/filepath"
	"strings"

	"mailmind-backend/internal/mailcache/domain"
)

var extensionTypes = map[string]string{
	".pdf": "document", ".doc": "document", ".docx": "document",
	".txt": "document", ".rtf": "document", ".odt": "document",
	".xls": "spreadsheet", ".xlsx": "spreadsheet", ".csv": "spreadsheet", ".ods": "spreadsheet",
	".ppt": "presentation", ".pptx": "presentation", ".odp": "presentation",
	".jpg": "image", ".jpeg": "image", ".png": "image", ".gif": "image",
	".bmp": "image", ".svg": "image", ".webp": "image",
	".zip": "archive", ".rar": "archive", ".7z": "archive", ".tar": "archive", ".gz": "archive",
	".exe": "executable", ".bat": "executable", ".cmd": "executable",
	".sh": "executable", ".msi": "executable", ".scr": "executable", ".jar": "executable",
}

var businessDocTypes = map[string]bool{"document": true, "spreadsheet": true, "presentation": true}

var invoiceFilenameTerms = []string{"invoice", "receipt", "bill", "statement"}

var typeLabels = map[string]string{
	"document":     "Document Attachment",
	"spreadsheet":  "Spreadsheet Attachment",
	"presentation": "Presentation Attachment",
	"image":        "Image Attachment",
	"archive":      "Archive Attachment",
	"executable":   "Executable Attachment",
	"other":        "Other Attachment",
}

// applyAttachmentAnalysis aggregates attachment metadata from filenames:
// executables smell like spam, business documents raise importance,
// invoice files raise deletability. The score effects are keyed off the
// stored metadata and applied by the scoring pass, so rescoring
// reproduces them without re-reading the attachment list. No-op when the
// message has no attachments.
func applyAttachmentAnalysis(msg *domain.CachedMessage) {
	if len(msg.Attachments) == 0 {
		return
	}

	meta := &domain.AttachmentMetadata{
		Count:      len(msg.Attachments),
		TypeCounts: make(map[string]int),
	}

	msg.AddLabel("Has Attachments")

	for _, attachment := range msg.Attachments {
		kind := attachmentType(attachment.Name)
		meta.TypeCounts[kind]++
		meta.TotalSize += attachment.Size
		msg.AddLabel(typeLabels[kind])

		switch {
		case kind == "executable":
			meta.HasExecutable = true
		case businessDocTypes[kind]:
			meta.HasBusinessDoc = true
		}
		if containsAnyTerm(attachment.Name, invoiceFilenameTerms) {
			meta.HasInvoiceFile = true
		}
	}

	if meta.HasExecutable {
		msg.SpamScore = clamp01(msg.SpamScore + 0.2)
	}
	if meta.HasInvoiceFile {
		msg.AddLabel("Invoice Attachment")
	}

	msg.AttachmentMetadata = meta
}

func attachmentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if kind, ok := extensionTypes[ext]; ok {
		return kind
	}
	return "other"
}
