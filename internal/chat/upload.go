package chat

import (
	"context"
	"log/slog"

	"aio-chat/internal/extract"
	"aio-chat/internal/translate"
)

type Extractor interface {
	Extract(contentType string, data []byte) (string, error)
}

// Document is an upload reduced to text ready to attach to a message.
type Document struct {
	Content      string `json:"content"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
}

// UploadProcessor extracts, clips and optionally translates uploaded files.
type UploadProcessor struct {
	log        *slog.Logger
	extractor  Extractor
	translator translate.Translator
}

func NewUploadProcessor(log *slog.Logger, extractor Extractor, translator translate.Translator) *UploadProcessor {
	return &UploadProcessor{log: log, extractor: extractor, translator: translator}
}

// Process returns extract.ErrUnsupportedType (wrapped) for types it cannot read.
func (p *UploadProcessor) Process(ctx context.Context, name, declaredType string, data []byte, settings Settings) (Document, error) {
	contentType := extract.DetectType(name, declaredType, data)
	text, err := p.extractor.Extract(contentType, data)
	if err != nil {
		return Document{}, err
	}

	content := Clip(text, settings.FileContentLimit)
	if settings.EnableTranslation && p.translator != nil {
		res, err := p.translator.Translate(ctx, Clip(content, settings.TranslationLimit), translate.DefaultTarget)
		if err != nil {
			p.log.Warn("translation failed, keeping original text", "file", name, "err", err)
		} else {
			content = res.TranslatedText
		}
	}

	p.log.Info("file processed", "file", name, "type", contentType, "size", len(data), "chars", len([]rune(content)))
	return Document{
		Content:      content,
		OriginalName: name,
		Size:         int64(len(data)),
		Type:         contentType,
	}, nil
}
