package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"strings"
	"time"
	"unicode"

	_ "image/gif"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	_ "golang.org/x/image/webp"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/normalization"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/media"
)

const (
	MaxImageWidth     = 1600
	placeholderWidth  = 1200
	placeholderHeight = 630
	invalidImageMsg   = "upload a valid image. The file you uploaded was either not an image or a corrupted image"
)

// Upload is a file received from a multipart body.
type Upload struct {
	Filename string
	Data     []byte
}

// Image is an upload after decoding and downscaling.
type Image struct {
	Data []byte
	Ext  string
}

// ArtworkService renders placeholder images and normalizes uploaded ones
// before they reach the media store.
type ArtworkService interface {
	Placeholder(title string) ([]byte, error)
	Process(field string, up *Upload) (*Image, error)
	// Save stores img or, when img is nil, a placeholder rendered from
	// title. It returns the object key.
	Save(ctx context.Context, category media.Category, owner uuid.UUID, title string, img *Image) (string, error)
	URL(key string) string
	Remove(ctx context.Context, key string)
}

type artworkService struct {
	log      *logger.Logger
	store    media.Store
	palette  []color.NRGBA
	fontFace font.Face
}

var defaultPalette = []color.NRGBA{
	{R: 0x1F, G: 0x3A, B: 0x5F, A: 0xFF},
	{R: 0x6B, G: 0x2D, B: 0x5C, A: 0xFF},
	{R: 0x2E, G: 0x6B, B: 0x4F, A: 0xFF},
	{R: 0x8C, G: 0x4A, B: 0x2F, A: 0xFF},
	{R: 0x3D, G: 0x40, B: 0x8A, A: 0xFF},
	{R: 0x7A, G: 0x1E, B: 0x2C, A: 0xFF},
}

// NewArtworkService loads the palette from colorsPath when given, otherwise
// the built-in one. The font is the embedded Go Regular face.
func NewArtworkService(log *logger.Logger, store media.Store, colorsPath string) (ArtworkService, error) {
	serviceLog := log.With("service", "ArtworkService")

	palette := defaultPalette
	if strings.TrimSpace(colorsPath) != "" {
		serviceLog.Info("Loading artwork colors...", "path", colorsPath)
		loaded, err := loadColorsFromFile(colorsPath)
		if err != nil {
			return nil, fmt.Errorf("could not load artwork colors: %w", err)
		}
		if len(loaded) == 0 {
			return nil, fmt.Errorf("artwork colors list is empty")
		}
		palette = loaded
	}

	face, err := loadFontFace(goregular.TTF, 220)
	if err != nil {
		return nil, fmt.Errorf("could not load artwork font: %w", err)
	}
	return &artworkService{log: serviceLog, store: store, palette: palette, fontFace: face}, nil
}

func (as *artworkService) Placeholder(title string) ([]byte, error) {
	dc := gg.NewContext(placeholderWidth, placeholderHeight)
	dc.SetColor(as.pickColor(title))
	dc.DrawRectangle(0, 0, placeholderWidth, placeholderHeight)
	dc.Fill()

	dc.SetFontFace(as.fontFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(computeInitials(title), placeholderWidth/2, placeholderHeight/2, 0.5, 0.35)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (as *artworkService) Process(field string, up *Upload) (*Image, error) {
	data, ext, err := processUploadedImage(field, up.Data, MaxImageWidth)
	if err != nil {
		return nil, err
	}
	return &Image{Data: data, Ext: ext}, nil
}

func (as *artworkService) Save(ctx context.Context, category media.Category, owner uuid.UUID, title string, img *Image) (string, error) {
	data, ext := []byte(nil), "png"
	if img != nil {
		data, ext = img.Data, img.Ext
	} else {
		rendered, err := as.Placeholder(title)
		if err != nil {
			return "", err
		}
		data = rendered
	}
	// Versioned keys keep CDNs from serving a replaced image.
	key := media.Key(category, fmt.Sprintf("%s/%d.%s", owner.String(), time.Now().UnixNano(), ext))
	if err := as.store.Put(ctx, key, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", category, err)
	}
	return key, nil
}

func (as *artworkService) URL(key string) string {
	return as.store.URL(key)
}

// Remove deletes an object best-effort; failures are logged and ignored.
func (as *artworkService) Remove(ctx context.Context, key string) {
	key = strings.TrimSpace(key)
	if key == "" || media.IsAbsoluteURL(key) || isDefaultImage(key) {
		return
	}
	if err := as.store.Delete(ctx, key); err != nil {
		as.log.Warn("failed to delete old media (ignored)", "key", key, "error", err)
	}
}

func isDefaultImage(key string) bool {
	return strings.HasSuffix(key, "/default_profile.jpg")
}

// processUploadedImage decodes an upload and scales it down to maxWidth,
// keeping the aspect ratio. PNG stays PNG; everything else becomes JPEG.
func processUploadedImage(field string, raw []byte, maxWidth int) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", &normalization.FieldError{Field: field, Msg: invalidImageMsg}
	}

	b := img.Bounds()
	if b.Dx() > maxWidth {
		h := b.Dy() * maxWidth / b.Dx()
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
	}

	var out bytes.Buffer
	if format == "png" {
		if err := png.Encode(&out, img); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		return out.Bytes(), "png", nil
	}
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return out.Bytes(), "jpg", nil
}

func (as *artworkService) pickColor(seed string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(seed))))
	return as.palette[int(h.Sum32()%uint32(len(as.palette)))]
}

// computeInitials takes the first letter of the first two words.
func computeInitials(title string) string {
	var out []rune
	for _, word := range strings.Fields(title) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

func loadColorsFromFile(jsonPath string) ([]color.NRGBA, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read file error: %w", err)
	}
	var colors []color.NRGBA
	if err := json.Unmarshal(data, &colors); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}
	return colors, nil
}

func loadFontFace(ttf []byte, size float64) (font.Face, error) {
	parsedFont, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
