package enrich

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

var ErrEnrichmentFailed = errors.New("enrichment failed")

type (
	Translator interface {
		Translate(ctx context.Context, text, source, target string) (string, error)
	}

	ImageFinder interface {
		ImageRef(ctx context.Context, text string) (string, error)
	}

	Enrichment struct {
		Translation string
		ImageURL    string
	}

	Enricher struct {
		translator Translator
		images     ImageFinder
		sourceLang string
		targetLang string
	}
)

func NewEnricher(translator Translator, images ImageFinder, sourceLang, targetLang string) *Enricher {
	return &Enricher{
		translator: translator,
		images:     images,
		sourceLang: sourceLang,
		targetLang: targetLang,
	}
}

// Enrich looks up the translation and the image reference in parallel.
// Either failure fails the whole lookup with ErrEnrichmentFailed.
func (e *Enricher) Enrich(ctx context.Context, text string) (Enrichment, error) {
	var res Enrichment
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		translation, err := e.translator.Translate(egCtx, text, e.sourceLang, e.targetLang)
		if err != nil {
			return fmt.Errorf("%w: translate: %w", ErrEnrichmentFailed, err)
		}
		res.Translation = translation
		return nil
	})

	eg.Go(func() error {
		imageURL, err := e.images.ImageRef(egCtx, text)
		if err != nil {
			return fmt.Errorf("%w: image: %w", ErrEnrichmentFailed, err)
		}
		res.ImageURL = imageURL
		return nil
	})

	if err := eg.Wait(); err != nil {
		return Enrichment{}, err
	}
	return res, nil
}
