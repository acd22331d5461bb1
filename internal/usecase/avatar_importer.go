package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/St1cky1/user-service/internal/entity"
	"github.com/St1cky1/user-service/internal/infrastructure/logger"
	"github.com/St1cky1/user-service/internal/repository"
)

const (
	importConcurrency = 3
	importTimeout     = 30 * time.Second
)

var ErrNoImportImages = errors.New("no jpg, jpeg or png files found")

// ImportReport - итог массовой загрузки
type ImportReport struct {
	Users    int
	Imported int
	Skipped  int
	Failed   int
	Duration time.Duration
}

// AvatarImporter раздает картинки из каталога пользователям без аватарки
type AvatarImporter struct {
	avatars    *AvatarService
	avatarRepo repository.IAvatarRepository
	maxBytes   int64
	log        *logger.Logger
}

// maxBytes - тот же потолок, что и у загрузки через HTTP
func NewAvatarImporter(avatars *AvatarService, avatarRepo repository.IAvatarRepository, maxBytes int64, log *logger.Logger) *AvatarImporter {
	return &AvatarImporter{
		avatars:    avatars,
		avatarRepo: avatarRepo,
		maxBytes:   maxBytes,
		log:        log.Named("importer"),
	}
}

// Import загружает аватарки для всех пользователей без аватарки.
// Картинки назначаются по кругу, одновременно идет не больше трех загрузок.
func (i *AvatarImporter) Import(ctx context.Context, dir string) (*ImportReport, error) {
	files, oversize, err := i.loadImportFiles(dir)
	if err != nil {
		return nil, err
	}
	i.log.Info("avatar files loaded", "dir", dir, "count", len(files), "oversize", oversize)

	userIDs, err := i.avatarRepo.ListWithoutAvatar(ctx)
	if err != nil {
		return nil, &entity.PersistenceError{Op: "list users without avatar", Err: err}
	}

	start := time.Now()
	report := &ImportReport{Users: len(userIDs), Skipped: oversize}

	var wg sync.WaitGroup
	var mu sync.Mutex
	semaphore := make(chan struct{}, importConcurrency)

	for idx, userID := range userIDs {
		wg.Add(1)
		go func(idx, userID int) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			file := files[idx%len(files)]

			uploadCtx, cancel := context.WithTimeout(ctx, importTimeout)
			defer cancel()

			err := i.avatars.UploadAvatar(uploadCtx, userID, userID, file)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				report.Imported++
				i.log.Debug("avatar imported", "user_id", userID, "file", file.Filename)
			case errors.Is(err, entity.ErrUserNotFound):
				// пользователя удалили, пока шел импорт
				report.Skipped++
			default:
				report.Failed++
				i.log.Warn("avatar import failed", "user_id", userID, "file", file.Filename, "error", err)
			}
		}(idx, userID)
	}

	wg.Wait()
	report.Duration = time.Since(start)

	i.log.Info("avatar import finished",
		"users", report.Users,
		"imported", report.Imported,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"duration", report.Duration,
	)

	if report.Failed > 0 {
		return report, fmt.Errorf("%d avatars failed to import", report.Failed)
	}
	return report, nil
}

// loadImportFiles читает подходящие файлы из каталога в порядке имен.
// Файлы больше maxBytes не читаются, второй результат - их количество.
func (i *AvatarImporter) loadImportFiles(dir string) ([]*entity.UploadedFile, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read dir %s: %w", dir, err)
	}

	oversize := 0
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !entity.IsAllowedAvatarFilename(e.Name()) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to stat file %s: %w", e.Name(), err)
		}
		if i.maxBytes > 0 && info.Size() > i.maxBytes {
			i.log.Warn("avatar file too large, skipped", "file", e.Name(), "size", info.Size(), "max", i.maxBytes)
			oversize++
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, oversize, ErrNoImportImages
	}

	files := make([]*entity.UploadedFile, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read file %s: %w", name, err)
		}
		files = append(files, &entity.UploadedFile{Filename: name, Data: data})
	}

	return files, oversize, nil
}
