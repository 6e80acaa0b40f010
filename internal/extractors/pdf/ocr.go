package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docdig/internal/core/domain"
)

// extractOCR recognises the images embedded in each page. Text of the
// images on one page is joined by newlines and pages by a blank line.
func (e *Extractor) extractOCR(
	ctx context.Context,
	reader *pdf.Reader,
	data []byte,
	lang string,
) (*domain.Extraction, error) {
	if lang == "" {
		lang = domain.DefaultOCRLanguage
	}
	encrypted := !reader.Trailer().Key("Encrypt").IsNull()

	pages := reader.NumPage()
	parts := make([]string, 0, pages)
	found := 0

	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		var texts []string
		for _, img := range pageImages(page, data, encrypted) {
			found++
			text, err := e.ocr.Recognize(ctx, img, lang)
			if err != nil {
				return nil, fmt.Errorf("ocr page %d (%s): %w", i, lang, err)
			}
			if text = strings.TrimSpace(text); text != "" {
				texts = append(texts, text)
			}
		}
		if len(texts) > 0 {
			parts = append(parts, strings.Join(texts, "\n"))
		}
	}

	if found == 0 {
		return nil, fmt.Errorf("no page images to recognise: %w", domain.ErrUnsupportedType)
	}

	meta := domain.Metadata{}
	meta.Add("Content-Type", MIMEType)
	meta.Add("xmpTPg:NPages", strconv.Itoa(pages))
	meta.Add("X-OCR-Language", lang)
	meta.Add("X-OCR-Engine", e.ocr.Name())

	return &domain.Extraction{
		Text:     strings.Join(parts, "\n\n"),
		Metadata: meta,
	}, nil
}

// pageImages returns the image XObjects of page in a form an OCR engine
// accepts: JPEG and JPEG 2000 streams as stored, other images re-encoded
// as PNG. Images that cannot be read are skipped.
func pageImages(page pdf.Page, data []byte, encrypted bool) [][]byte {
	xobjects := page.Resources().Key("XObject")

	var images [][]byte
	for _, name := range xobjects.Keys() {
		x := xobjects.Key(name)
		if x.Kind() != pdf.Stream || x.Key("Subtype").Name() != "Image" {
			continue
		}
		if img, ok := imageBytes(x, data, encrypted); ok {
			images = append(images, img)
		}
	}
	return images
}

func imageBytes(x pdf.Value, data []byte, encrypted bool) ([]byte, bool) {
	filters := filterNames(x.Key("Filter"))

	if len(filters) == 1 && (filters[0] == "DCTDecode" || filters[0] == "JPXDecode") {
		if encrypted {
			return nil, false
		}
		return rawStream(x, data)
	}

	for _, f := range filters {
		if f != "FlateDecode" && f != "ASCII85Decode" {
			return nil, false
		}
	}
	samples, ok := decodedStream(x)
	if !ok {
		return nil, false
	}
	img, err := samplesToPNG(x, samples)
	if err != nil {
		return nil, false
	}
	return img, true
}

func filterNames(v pdf.Value) []string {
	switch v.Kind() {
	case pdf.Name:
		return []string{v.Name()}
	case pdf.Array:
		names := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			names = append(names, v.Index(i).Name())
		}
		return names
	default:
		return nil
	}
}

// rawStream returns the undecoded bytes of a stream. The reader only
// exposes decoded data, and it rejects image codecs, but it renders a
// stream value as "<<dict>>@offset" with the absolute data offset.
func rawStream(x pdf.Value, data []byte) ([]byte, bool) {
	s := x.String()
	at := strings.LastIndexByte(s, '@')
	if at < 0 {
		return nil, false
	}
	offset, err := strconv.ParseInt(s[at+1:], 10, 64)
	if err != nil {
		return nil, false
	}
	length := x.Key("Length").Int64()
	if offset < 0 || length <= 0 || offset+length > int64(len(data)) {
		return nil, false
	}
	return data[offset : offset+length], true
}

// decodedStream reads a stream through the reader's filters. The reader
// panics on unsupported parameters.
func decodedStream(x pdf.Value) (samples []byte, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			samples, ok = nil, false
		}
	}()

	rc := x.Reader()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, false
	}
	return b, true
}

// samplesToPNG encodes raw image samples as PNG. Gray, RGB and CMYK
// colour spaces with 8 bits per component and 1-bit gray are supported.
func samplesToPNG(x pdf.Value, samples []byte) ([]byte, error) {
	width := int(x.Key("Width").Int64())
	height := int(x.Key("Height").Int64())
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}

	bpc := int(x.Key("BitsPerComponent").Int64())
	components := colorComponents(x)
	if x.Key("ImageMask").Bool() {
		bpc, components = 1, 1
	}

	var img image.Image
	switch {
	case bpc == 8 && components == 1:
		if len(samples) < width*height {
			return nil, errShortImage
		}
		img = &image.Gray{Pix: samples[:width*height], Stride: width, Rect: image.Rect(0, 0, width, height)}
	case bpc == 8 && components == 3:
		if len(samples) < width*height*3 {
			return nil, errShortImage
		}
		rgba := image.NewNRGBA(image.Rect(0, 0, width, height))
		for p := 0; p < width*height; p++ {
			copy(rgba.Pix[p*4:p*4+3], samples[p*3:p*3+3])
			rgba.Pix[p*4+3] = 0xff
		}
		img = rgba
	case bpc == 8 && components == 4:
		if len(samples) < width*height*4 {
			return nil, errShortImage
		}
		img = &image.CMYK{Pix: samples[:width*height*4], Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	case bpc == 1 && components == 1:
		stride := (width + 7) / 8
		if len(samples) < stride*height {
			return nil, errShortImage
		}
		gray := image.NewGray(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for px := 0; px < width; px++ {
				if samples[y*stride+px/8]&(0x80>>(px%8)) != 0 {
					gray.SetGray(px, y, color.Gray{Y: 0xff})
				}
			}
		}
		img = gray
	default:
		return nil, fmt.Errorf("unsupported image: %d bits, %d components", bpc, components)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var errShortImage = fmt.Errorf("image data shorter than its dimensions")

// colorComponents returns the number of components of the image colour
// space, or 0 when it is not supported.
func colorComponents(x pdf.Value) int {
	cs := x.Key("ColorSpace")
	name := cs.Name()
	if cs.Kind() == pdf.Array {
		name = cs.Index(0).Name()
		if name == "ICCBased" {
			return int(cs.Index(1).Key("N").Int64())
		}
	}
	switch name {
	case "DeviceGray", "CalGray":
		return 1
	case "DeviceRGB", "CalRGB":
		return 3
	case "DeviceCMYK":
		return 4
	default:
		return 0
	}
}
