package services

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"net/http"
	"strings"
	"unicode"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	_ "golang.org/x/image/webp"

	"github.com/yungbote/aiclub-backend/internal/platform/apierr"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

const (
	agentIconSize     = 256
	MaxAgentIconBytes = 2 << 20
)

var iconPalette = []color.NRGBA{
	{R: 0x4F, G: 0x46, B: 0xE5, A: 0xFF},
	{R: 0x05, G: 0x96, B: 0x69, A: 0xFF},
	{R: 0xD9, G: 0x77, B: 0x06, A: 0xFF},
	{R: 0xDB, G: 0x27, B: 0x77, A: 0xFF},
	{R: 0x02, G: 0x84, B: 0xC7, A: 0xFF},
	{R: 0x7C, G: 0x3A, B: 0xED, A: 0xFF},
}

// AgentIconService renders agent icons as square PNGs.
type AgentIconService interface {
	// Normalize decodes an uploaded image, center-crops it and scales it to the icon size.
	Normalize(raw []byte) ([]byte, error)
	// Placeholder draws initials on a color picked from the title.
	Placeholder(title string) ([]byte, error)
}

type agentIconService struct {
	log      *logger.Logger
	fontFace font.Face
}

func NewAgentIconService(log *logger.Logger) (AgentIconService, error) {
	parsed, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse icon font: %w", err)
	}
	face := truetype.NewFace(parsed, &truetype.Options{
		Size:    96,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return &agentIconService{
		log:      log.With("service", "AgentIconService"),
		fontFace: face,
	}, nil
}

func (s *agentIconService) Normalize(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, apierr.BadRequest("invalid_icon", "icon is empty")
	}
	if len(raw) > MaxAgentIconBytes {
		return nil, apierr.Newf(http.StatusRequestEntityTooLarge, "icon_too_large", "icon must be at most %d bytes", MaxAgentIconBytes)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, apierr.BadRequest("invalid_icon", "icon must be a png, jpeg, gif or webp image")
	}

	b := img.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, agentIconSize, agentIconSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContextForRGBA(dst)
	var out bytes.Buffer
	if err := dc.EncodePNG(&out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}

func (s *agentIconService) Placeholder(title string) ([]byte, error) {
	const size = agentIconSize
	dc := gg.NewContext(size, size)

	dc.DrawRoundedRectangle(0, 0, size, size, size/6)
	dc.SetColor(paletteFor(title))
	dc.Fill()

	label := iconInitials(title)
	dc.SetFontFace(s.fontFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(label, size/2, size/2, 0.5, 0.35)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func paletteFor(title string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(title))))
	return iconPalette[h.Sum32()%uint32(len(iconPalette))]
}

// iconInitials takes the first letter of up to two words.
func iconInitials(title string) string {
	var out []rune
	for _, w := range strings.Fields(title) {
		for _, r := range w {
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
		return "AI"
	}
	return string(out)
}
