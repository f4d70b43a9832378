package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"jobspace-backend/internal/domain"
	"jobspace-backend/internal/storage"
	"jobspace-backend/pkg/apperror"
	"jobspace-backend/pkg/audit"
	"jobspace-backend/pkg/logger"
	"jobspace-backend/pkg/security"
	"jobspace-backend/pkg/security/antivirus"
)

type uploadUsecase struct {
	files    domain.FileStorage
	scanner  antivirus.Scanner
	namer    *storage.Namer
	maxBytes int64
}

// NewUploadUsecase stores candidacy documents. scanner may be nil.
func NewUploadUsecase(files domain.FileStorage, scanner antivirus.Scanner, maxBytes int64) domain.UploadUsecase {
	if scanner == nil {
		scanner = antivirus.NewNoOpScanner()
	}
	return &uploadUsecase{
		files:    files,
		scanner:  scanner,
		namer:    storage.NewNamer(),
		maxBytes: maxBytes,
	}
}

type preparedFile struct {
	field       string
	name        string
	contentType string
	data        []byte
}

// StoreFiles checks every file before writing any of them, so a request
// with one bad file stores nothing. Files written before a storage error
// are removed again.
func (u *uploadUsecase) StoreFiles(ctx context.Context, files []domain.UploadedFile) (map[string]string, error) {
	prepared := make([]preparedFile, 0, len(files))
	for _, f := range files {
		p, err := u.prepare(ctx, f)
		if err != nil {
			return nil, err
		}
		prepared = append(prepared, p)
	}

	paths := make(map[string]string, len(prepared))
	var stored []string
	for _, p := range prepared {
		if err := u.files.Put(ctx, p.name, p.contentType, p.data); err != nil {
			u.cleanup(ctx, stored)
			return nil, apperror.Internal(msgUploadFailed, err)
		}
		stored = append(stored, p.name)
		paths[p.field] = storage.PublicPrefix + p.name

		audit.Default().Log(ctx, audit.Event{
			Event:    audit.EventFileStored,
			RecordID: p.name,
			Details: map[string]interface{}{
				"field":   p.field,
				"size":    len(p.data),
				"mime":    p.contentType,
				"backend": u.files.Name(),
			},
		})
	}
	return paths, nil
}

func (u *uploadUsecase) prepare(ctx context.Context, f domain.UploadedFile) (preparedFile, error) {
	if !slices.Contains(domain.UploadFields, f.Field) {
		return preparedFile{}, apperror.BadRequest(fmt.Sprintf("Champ de fichier inconnu : %s", f.Field))
	}
	if int64(len(f.Data)) > u.maxBytes {
		return preparedFile{}, apperror.TooLarge(fmt.Sprintf("Fichier trop volumineux (%d Mo maximum)", u.maxBytes>>20))
	}

	check := security.ValidateFile(f.Data)
	if !check.Valid {
		u.rejected(ctx, f, check.Error)
		return preparedFile{}, apperror.BadRequest(fmt.Sprintf("%s : %s", f.Field, check.Error))
	}

	scan := u.scanner.Scan(ctx, f.Filename, f.Data)
	if scan.Error != nil {
		return preparedFile{}, apperror.Internal(msgUploadFailed, fmt.Errorf("scan %s: %w", f.Field, scan.Error))
	}
	if scan.Infected {
		u.rejected(ctx, f, "infected: "+scan.ThreatName)
		return preparedFile{}, apperror.BadRequest(fmt.Sprintf("%s : fichier refusé par l'antivirus", f.Field))
	}

	data, ext, mime := f.Data, check.Extension, check.DetectedMIME
	if security.IsImageExtension(ext) {
		compressed, err := storage.CompressImage(data, storage.MaxImageDimension)
		if err != nil {
			u.rejected(ctx, f, err.Error())
			return preparedFile{}, apperror.BadRequest(fmt.Sprintf("%s : image illisible", f.Field))
		}
		data, ext, mime = compressed, ".jpg", "image/jpeg"
	}

	return preparedFile{
		field:       f.Field,
		name:        u.namer.Name(f.Field, ext),
		contentType: mime,
		data:        data,
	}, nil
}

func (u *uploadUsecase) rejected(ctx context.Context, f domain.UploadedFile, reason string) {
	audit.Default().Log(ctx, audit.Event{
		Event: audit.EventFileRejected,
		Details: map[string]interface{}{
			"field":    f.Field,
			"filename": f.Filename,
			"reason":   reason,
		},
	})
}

func (u *uploadUsecase) cleanup(ctx context.Context, names []string) {
	for _, name := range names {
		if err := u.files.Delete(ctx, name); err != nil {
			logger.Log.WarnContext(ctx, "orphan upload not removed", "name", name, "error", err)
		}
	}
}

func (u *uploadUsecase) ResolveURL(ctx context.Context, name string) (string, error) {
	url, err := u.files.URL(ctx, name)
	if errors.Is(err, storage.ErrInvalidName) {
		return "", apperror.NotFound("Fichier non trouvé")
	}
	if err != nil {
		return "", apperror.Internal(msgReadFailed, err)
	}
	return url, nil
}
