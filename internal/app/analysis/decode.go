package analysis

import (
	"bytes"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/PabloGalante/fluid101/internal/domain"
)

// Intensities decodes an image and returns one normalized intensity in [0,1]
// per pixel: the mean of its red, green and blue channels over 255. Alpha is
// ignored.
func Intensities(data []byte) ([]float64, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(domain.ErrAnalysisFailed, err.Error())
	}

	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	if bounds.Empty() {
		return nil, errors.Wrap(domain.ErrAnalysisFailed, "image has no pixels")
	}

	out := make([]float64, 0, bounds.Dx()*bounds.Dy())
	pix := nrgba.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		sum := float64(pix[i]) + float64(pix[i+1]) + float64(pix[i+2])
		out = append(out, sum/3/255)
	}
	return out, nil
}
