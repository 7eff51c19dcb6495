package imagekit

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"sync"

	"github.com/chai2010/webp"
	"github.com/nfnt/resize"
)

var (
	ErrInternal          = errors.New("internal server error")
	ErrInvalidLogoType   = errors.New("invalid logo type, supported formats are jpg, jpeg, png, webp, or non-animated gif")
	ErrInvalidLogoAspect = errors.New("invalid logo resolution, logo must be square")
)

// ParseLogoImage decodes an uploaded tenant logo and re-encodes it as webp
// in two sizes: a 128px thumbnail and a 512px full version.
func ParseLogoImage(file *multipart.File) (thumb []byte, full []byte, err error) {
	buffer := new(bytes.Buffer)
	if _, err := io.Copy(buffer, *file); err != nil {
		return nil, nil, ErrInternal
	}

	var img image.Image
	contentType := http.DetectContentType(buffer.Bytes())

	switch contentType {
	case "image/png":
		img, err = png.Decode(buffer)
	case "image/jpeg":
		img, err = jpeg.Decode(buffer)
	case "image/gif":
		isNonAnimated, gifErr := isNonAnimatedGIF(bytes.NewReader(buffer.Bytes()))
		if gifErr != nil || !isNonAnimated {
			return nil, nil, ErrInvalidLogoType
		}
		img, err = gif.Decode(buffer)
	case "image/webp":
		img, err = webp.Decode(buffer)
	default:
		return nil, nil, ErrInvalidLogoType
	}

	if err != nil {
		return nil, nil, ErrInvalidLogoType
	}

	bounds := img.Bounds()
	if bounds.Dx() != bounds.Dy() {
		return nil, nil, ErrInvalidLogoAspect
	}

	var wg sync.WaitGroup
	var buf512, buf128 []byte
	var err512, err128 error

	wg.Add(1)
	go func() {
		defer wg.Done()
		resized := resize.Resize(512, 512, img, resize.Lanczos3)
		buffer := new(bytes.Buffer)
		if err := webp.Encode(buffer, resized, &webp.Options{Quality: 80}); err != nil {
			err512 = ErrInternal
			return
		}
		buf512 = buffer.Bytes()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		resized := resize.Resize(128, 128, img, resize.Lanczos3)
		buffer := new(bytes.Buffer)
		if err := webp.Encode(buffer, resized, &webp.Options{Quality: 80}); err != nil {
			err128 = ErrInternal
			return
		}
		buf128 = buffer.Bytes()
	}()

	wg.Wait()

	if err512 != nil {
		return nil, nil, err512
	}
	if err128 != nil {
		return nil, nil, err128
	}

	return buf128, buf512, nil
}

func isNonAnimatedGIF(reader io.Reader) (bool, error) {
	img, err := gif.DecodeAll(reader)
	if err != nil {
		return false, err
	}
	return len(img.Image) == 1, nil
}
