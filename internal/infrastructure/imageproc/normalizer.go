package imageproc

import (
	"bytes"
	"fmt"

	"github.com/St1cky1/user-service/internal/entity"
	"github.com/disintegration/imaging"
)

// DefaultEdge - сторона квадратной аватарки
const DefaultEdge = 250

// Normalizer приводит любую картинку к квадрату edge x edge в PNG.
// Пропорции не сохраняются, картинка именно растягивается, без обрезки.
type Normalizer struct {
	edge int
}

func NewNormalizer(edge int) *Normalizer {
	if edge <= 0 {
		edge = DefaultEdge
	}
	return &Normalizer{edge: edge}
}

// Normalize декодирует, ресайзит и кодирует в PNG.
// Один и тот же вход всегда дает одинаковые байты.
func (n *Normalizer) Normalize(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &entity.DecodeError{Err: err}
	}

	dst := imaging.Resize(src, n.edge, n.edge, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}

	return buf.Bytes(), nil
}
