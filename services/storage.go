package services

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MaxProofSizeBytes caps payment-proof and selfie uploads at 5 MB.
const MaxProofSizeBytes = 5 * 1024 * 1024

// StorageService stores payment proofs and attendance selfies. With an upload
// directory configured it writes the file and returns a /uploads/... URL;
// without one it falls back to an inline base64 data URI so the proof is never
// lost just because the disk backend is absent.
type StorageService struct {
	dir string
	log zerolog.Logger
}

func NewStorageService(dir string, log zerolog.Logger) *StorageService {
	return &StorageService{dir: dir, log: log.With().Str("service", "storage").Logger()}
}

// SaveProof validates and stores one image, returning an opaque proof
// reference.
func (s *StorageService) SaveProof(filename, contentType string, size int64, r io.Reader) (string, error) {
	if size > MaxProofSizeBytes {
		return "", &ValidationError{Reason: fmt.Sprintf("el archivo supera el límite de %d MB", MaxProofSizeBytes/(1024*1024))}
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", &ValidationError{Reason: "solo se aceptan imágenes como comprobante"}
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxProofSizeBytes+1))
	if err != nil {
		return "", &UpstreamError{Op: "leer comprobante", Err: err}
	}
	if int64(len(data)) > MaxProofSizeBytes {
		return "", &ValidationError{Reason: fmt.Sprintf("el archivo supera el límite de %d MB", MaxProofSizeBytes/(1024*1024))}
	}

	if s.dir == "" {
		return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", &UpstreamError{Op: "preparar directorio de comprobantes", Err: err}
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &UpstreamError{Op: "guardar comprobante", Err: err}
	}

	s.log.Info().Str("archivo", name).Int("bytes", len(data)).Msg("comprobante guardado")
	return "/uploads/" + name, nil
}

// Dir returns the configured upload directory ("" when running with the
// data-URI fallback).
func (s *StorageService) Dir() string { return s.dir }
