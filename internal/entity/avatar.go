package entity

import "regexp"

const (
	// AvatarContentType - все аватарки хранятся только в PNG
	AvatarContentType = "image/png"

	// AvatarFieldName - имя поля multipart формы
	AvatarFieldName = "avatar"
)

// UploadedFile - файл из запроса, живет только в рамках запроса
type UploadedFile struct {
	Filename string
	Data     []byte
}

// Avatar - нормализованная аватарка, которую отдаем клиенту
type Avatar struct {
	UserID      int
	Data        []byte
	ContentType string
}

// avatarFilenamePattern - регистр важен, AVATAR.PNG не пройдет
var avatarFilenamePattern = regexp.MustCompile(`\.(jpg|jpeg|png)$`)

// IsAllowedAvatarFilename проверяет расширение до чтения содержимого
func IsAllowedAvatarFilename(name string) bool {
	return avatarFilenamePattern.MatchString(name)
}
