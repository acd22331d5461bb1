package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/St1cky1/user-service/internal/entity"
)

// запас на заголовки и границы multipart поверх самого файла
const multipartOverhead = 64 << 10

const (
	msgFileTooLarge     = "File too large"
	msgBadExtension     = "File must be a jpg or jpeg or png"
	msgUnexpectedField  = "Unexpected field"
	msgMissingFile      = "Please upload an avatar"
	msgMalformedRequest = "Malformed multipart request"
)

// ReadAvatarUpload читает multipart тело потоком и достает единственный файл avatar.
// Расширение проверяется до чтения байтов файла, размер режется на maxBytes+1.
// Файл целиком живет в памяти только в рамках запроса, на диск ничего не пишем.
func ReadAvatarUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (*entity.UploadedFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, entity.NewValidationError(msgMissingFile)
	}

	var file *entity.UploadedFile
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, intakeReadError(err)
		}

		// обычные поля формы пропускаем
		if part.FileName() == "" {
			if _, err := io.Copy(io.Discard, part); err != nil {
				return nil, intakeReadError(err)
			}
			continue
		}

		if part.FormName() != entity.AvatarFieldName || file != nil {
			return nil, entity.NewValidationError(msgUnexpectedField)
		}

		filename := part.FileName()
		if !entity.IsAllowedAvatarFilename(filename) {
			return nil, entity.NewValidationError(msgBadExtension)
		}

		data, err := io.ReadAll(io.LimitReader(part, maxBytes+1))
		if err != nil {
			return nil, intakeReadError(err)
		}
		if int64(len(data)) > maxBytes {
			return nil, entity.NewValidationError(msgFileTooLarge)
		}

		file = &entity.UploadedFile{Filename: filename, Data: data}
	}

	if file == nil {
		return nil, entity.NewValidationError(msgMissingFile)
	}

	return file, nil
}

func intakeReadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return entity.NewValidationError(msgFileTooLarge)
	}
	return entity.NewValidationError(msgMalformedRequest)
}
