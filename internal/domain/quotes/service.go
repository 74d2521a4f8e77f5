package quotes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"portal/internal/domain/currency"
	"portal/internal/platform/logger"
)

// Cipher encrypts stored PDFs; platform/crypto.Service implements it.
type Cipher interface {
	Configured() bool
	Encrypt(plain []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// RateSource supplies the converter used for USD equivalents in documents.
type RateSource interface {
	Converter(ctx context.Context) (currency.Converter, error)
}

type Service struct {
	Store      QuoteStore
	pricer     Pricer
	rates      RateSource
	cipher     Cipher
	storageDir string
	now        func() time.Time
}

func NewService(store QuoteStore, pricer Pricer, rates RateSource, cipher Cipher, storageDir string) *Service {
	return &Service{Store: store, pricer: pricer, rates: rates, cipher: cipher, storageDir: storageDir, now: time.Now}
}

func (s *Service) Create(ctx context.Context, in CreateInput, createdBy string) (Quote, error) {
	if err := validateInput(in); err != nil {
		return Quote{}, err
	}
	year, lines, total, err := price(ctx, s.pricer, in)
	if err != nil {
		return Quote{}, err
	}
	q := Quote{
		ID:          uuid.NewString(),
		ClientName:  in.ClientName,
		ClientEmail: in.ClientEmail,
		Year:        year,
		Lines:       lines,
		Notes:       in.Notes,
		Total:       total,
		CreatedBy:   createdBy,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.Store.Create(ctx, q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func (s *Service) Get(ctx context.Context, id string) (Quote, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Quote{}, ErrQuoteNotFound
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Quote, error) {
	return s.Store.List(ctx, limit, offset)
}

// PDF returns the rendered document, generating and storing it on first access.
func (s *Service) PDF(ctx context.Context, id string) ([]byte, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.PDFPath != "" {
		stored, err := s.readStored(q.PDFPath)
		if err == nil {
			return stored, nil
		}
		logger.Ctx(ctx).Warn().Err(err).Str("quoteId", q.ID).Msg("stored quote pdf unreadable, regenerating")
	}

	var conv *currency.Converter
	if s.rates != nil {
		c, err := s.rates.Converter(ctx)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("quoteId", q.ID).Msg("quote pdf rendered without USD equivalent")
		} else {
			conv = &c
		}
	}

	doc, err := RenderPDF(q, conv)
	if err != nil {
		return nil, fmt.Errorf("render quote pdf: %w", err)
	}
	if s.storageDir != "" {
		if path, err := s.persist(q.ID, doc); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("quoteId", q.ID).Msg("quote pdf store failed")
		} else if err := s.Store.SetPDFPath(ctx, q.ID, path); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("quoteId", q.ID).Msg("quote pdf path update failed")
		}
	}
	return doc, nil
}

func (s *Service) persist(id string, doc []byte) (string, error) {
	if err := os.MkdirAll(s.storageDir, 0o755); err != nil {
		return "", err
	}
	payload := doc
	name := id + ".pdf"
	if s.cipher != nil && s.cipher.Configured() {
		encrypted, err := s.cipher.Encrypt(doc)
		if err != nil {
			return "", err
		}
		payload = encrypted
		name += ".enc"
	}
	path := filepath.Join(s.storageDir, name)
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Service) readStored(path string) ([]byte, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) != ".enc" {
		return payload, nil
	}
	if s.cipher == nil || !s.cipher.Configured() {
		return nil, errors.New("encrypted quote pdf but no encryption key configured")
	}
	return s.cipher.Decrypt(payload)
}
