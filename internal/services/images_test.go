package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmaenge-dot/mystore-admin/internal/cache"
)

func encode(t *testing.T, w, h int, format imaging.Format) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func newPipeline(t *testing.T, limiter cache.Limiter) (*ImagePipeline, string) {
	t.Helper()
	dir := t.TempDir()
	backend, err := NewLocalBackend(dir)
	require.NoError(t, err)
	return NewImagePipeline(backend, limiter), dir
}

func fileSource(data []byte, ct string) UploadSource {
	return UploadSource{File: bytes.NewReader(data), ContentType: ct, Size: int64(len(data)), ClientKey: "10.0.0.1"}
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func decodeStored(t *testing.T, dir, ref string) image.Image {
	t.Helper()
	img, err := imaging.Open(filepath.Join(dir, strings.TrimPrefix(ref, PublicImagePrefix)))
	require.NoError(t, err)
	return img
}

func TestAcceptUploadURL(t *testing.T) {
	p, dir := newPipeline(t, nil)

	ref, err := p.AcceptUpload(context.Background(), UploadSource{URL: "  https://cdn.example.com/a.jpg "}, ProductImageConstraints)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.jpg", ref)
	assert.Empty(t, dirEntries(t, dir))

	_, err = p.AcceptUpload(context.Background(), UploadSource{URL: "   "}, ProductImageConstraints)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAcceptUploadTypeGate(t *testing.T) {
	p, dir := newPipeline(t, nil)

	for _, ct := range []string{"text/plain", "application/pdf", "image/webp", ""} {
		_, err := p.AcceptUpload(context.Background(), fileSource([]byte("hello"), ct), ProductImageConstraints)
		assert.ErrorIs(t, err, ErrUnsupportedMediaType, ct)
	}
	assert.Empty(t, dirEntries(t, dir))
}

func TestAcceptUploadSizeGate(t *testing.T) {
	p, dir := newPipeline(t, nil)
	small := UploadConstraints{MaxBytes: 100, MaxWidth: 1200}
	data := bytes.Repeat([]byte{0x89}, 200)

	_, err := p.AcceptUpload(context.Background(), fileSource(data, "image/png"), small)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	// taille non déclarée : la lecture bornée doit quand même rejeter
	src := fileSource(data, "image/png")
	src.Size = 0
	_, err = p.AcceptUpload(context.Background(), src, small)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	assert.Empty(t, dirEntries(t, dir))
}

func TestAcceptUploadInvalidContent(t *testing.T) {
	p, dir := newPipeline(t, nil)
	png := encode(t, 50, 50, imaging.PNG)

	cases := map[string]UploadSource{
		"pas une image":   fileSource([]byte("definitely not an image"), "image/png"),
		"png tronqué":     fileSource(png[:40], "image/png"),
		"jpeg déclaré":    fileSource(png, "image/jpeg"),
		"fichier vide":    fileSource([]byte{}, "image/gif"),
		"svg sans racine": fileSource([]byte(`<html><body>x</body></html>`), "image/svg+xml"),
	}
	for name, src := range cases {
		_, err := p.AcceptUpload(context.Background(), src, ProductImageConstraints)
		assert.ErrorIs(t, err, ErrInvalidImage, name)
	}
	assert.Empty(t, dirEntries(t, dir))
}

// hugePNG ne contient que l'en-tête IHDR d'une image gris 8 bits w×h
func hugePNG(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := func(typ string, data []byte) {
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(data)))
		body := append([]byte(typ), data...)
		buf.Write(body)
		_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(body))
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // profondeur, le reste à zéro : gris, deflate, sans entrelacement
	chunk("IHDR", ihdr)
	chunk("IEND", nil)
	return buf.Bytes()
}

func TestAcceptUploadPixelCap(t *testing.T) {
	p, dir := newPipeline(t, nil)

	_, err := p.AcceptUpload(context.Background(), fileSource(hugePNG(16000, 16000), "image/png"), ProductImageConstraints)
	require.ErrorIs(t, err, ErrInvalidImage)
	ue, ok := AsUploadError(err)
	require.True(t, ok)
	assert.Contains(t, ue.Message, "16000x16000")
	assert.Empty(t, dirEntries(t, dir))

	// sous le plafond, l'en-tête seul échoue plus loin, au décodage
	_, err = p.AcceptUpload(context.Background(), fileSource(hugePNG(100, 100), "image/png"), ProductImageConstraints)
	require.ErrorIs(t, err, ErrInvalidImage)
	ue, _ = AsUploadError(err)
	assert.NotContains(t, ue.Message, "trop grande")
}

func TestAcceptUploadResizesWideImages(t *testing.T) {
	p, dir := newPipeline(t, nil)

	ref, err := p.AcceptUpload(context.Background(), fileSource(encode(t, 2000, 1000, imaging.PNG), "image/png"), ProductImageConstraints)
	require.NoError(t, err)
	assert.Regexp(t, `^/images/[0-9a-f-]{36}\.png$`, ref)

	img := decodeStored(t, dir, ref)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())

	names := dirEntries(t, dir)
	require.Len(t, names, 1)
	assert.False(t, strings.HasPrefix(names[0], "."), "temporary file left behind")
}

func TestAcceptUploadLogoWidth(t *testing.T) {
	p, dir := newPipeline(t, nil)

	ref, err := p.AcceptUpload(context.Background(), fileSource(encode(t, 1000, 500, imaging.JPEG), "image/jpeg"), LogoConstraints)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".jpg"))

	img := decodeStored(t, dir, ref)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestAcceptUploadNeverEnlarges(t *testing.T) {
	p, dir := newPipeline(t, nil)
	data := encode(t, 300, 100, imaging.GIF)

	ref, err := p.AcceptUpload(context.Background(), fileSource(data, "image/gif"), ProductImageConstraints)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".gif"))

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(ref, PublicImagePrefix)))
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestAcceptUploadSVG(t *testing.T) {
	p, dir := newPipeline(t, nil)
	ok := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10" fill="#e53935"/></svg>`)

	ref, err := p.AcceptUpload(context.Background(), fileSource(ok, "image/svg+xml"), ProductImageConstraints)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".svg"))

	bad := []string{
		`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`,
		`<svg xmlns="http://www.w3.org/2000/svg" onload="alert(1)"></svg>`,
		`<svg xmlns="http://www.w3.org/2000/svg"><a href="javascript:alert(1)"><rect/></a></svg>`,
		`<svg xmlns="http://www.w3.org/2000/svg"><a href=" java&#9;script:alert(1)"><rect/></a></svg>`,
		`<svg xmlns="http://www.w3.org/2000/svg"><a href="#"><set attributeName="href" to="https://x.test"/><rect/></a></svg>`,
		`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"><a xlink:href="#"><animate attributeName="xlink:href" values="#"/><rect/></a></svg>`,
		`<svg xmlns="http://www.w3.org/2000/svg"><a><animate attributeName="x" values="0;JavaScript:alert(1)"/><rect/></a></svg>`,
		`<svg xmlns="http://www.w3.org/2000/svg"><a><set attributeName="y" to="javascript:alert(1)"/></a></svg>`,
	}
	for _, svg := range bad {
		_, err := p.AcceptUpload(context.Background(), fileSource([]byte(svg), "image/svg+xml"), ProductImageConstraints)
		assert.ErrorIs(t, err, ErrInvalidImage, svg)
	}
	assert.Len(t, dirEntries(t, dir), 1)

	// une animation ordinaire reste acceptée
	spin := `<svg xmlns="http://www.w3.org/2000/svg"><rect width="4" height="4"><animateTransform attributeName="transform" type="rotate" from="0" to="360" dur="2s"/></rect></svg>`
	_, err = p.AcceptUpload(context.Background(), fileSource([]byte(spin), "image/svg+xml"), ProductImageConstraints)
	require.NoError(t, err)
	assert.Len(t, dirEntries(t, dir), 2)
}

func TestAcceptUploadRateLimit(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	limiter := cache.NewMemoryLimiter(2, time.Minute).WithClock(func() time.Time { return now })
	p, dir := newPipeline(t, limiter)
	png := encode(t, 10, 10, imaging.PNG)
	ctx := context.Background()

	// les URL ne consomment pas le quota
	_, err := p.AcceptUpload(ctx, UploadSource{URL: "/images/x.png", ClientKey: "10.0.0.1"}, ProductImageConstraints)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := p.AcceptUpload(ctx, fileSource(png, "image/png"), ProductImageConstraints)
		require.NoError(t, err)
	}

	_, err = p.AcceptUpload(ctx, fileSource(png, "image/png"), ProductImageConstraints)
	require.ErrorIs(t, err, ErrRateLimited)
	ue, ok := AsUploadError(err)
	require.True(t, ok)
	assert.Equal(t, time.Minute, ue.RetryAfter)
	assert.Len(t, dirEntries(t, dir), 2)

	other := fileSource(png, "image/png")
	other.ClientKey = "10.0.0.2"
	_, err = p.AcceptUpload(ctx, other, ProductImageConstraints)
	assert.NoError(t, err)

	now = now.Add(time.Minute + time.Second)
	_, err = p.AcceptUpload(ctx, fileSource(png, "image/png"), ProductImageConstraints)
	assert.NoError(t, err)
}

type failingBackend struct{ *LocalBackend }

func (failingBackend) Put(context.Context, string, []byte, string) (string, error) {
	return "", errors.New("disque plein")
}

func TestAcceptUploadBackendFailure(t *testing.T) {
	dir := t.TempDir()
	local, err := NewLocalBackend(dir)
	require.NoError(t, err)
	p := NewImagePipeline(failingBackend{local}, nil)

	_, err = p.AcceptUpload(context.Background(), fileSource(encode(t, 10, 10, imaging.PNG), "image/png"), ProductImageConstraints)
	require.Error(t, err)
	_, isUpload := AsUploadError(err)
	assert.False(t, isUpload)
	assert.Empty(t, dirEntries(t, dir))
}

func TestUploadErrorKinds(t *testing.T) {
	err := uploadErr(KindInvalidImage, "image illisible: %s", "x")
	assert.True(t, errors.Is(err, ErrInvalidImage))
	assert.False(t, errors.Is(err, ErrPayloadTooLarge))
	assert.Equal(t, "image illisible: x", err.Error())
	assert.Equal(t, "InvalidImage", KindInvalidImage.String())
}

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{
		"image/svg+xml":             ".svg",
		"image/png":                 ".png",
		"image/jpeg":                ".jpg",
		"image/jpg":                 ".jpg",
		"IMAGE/GIF":                 ".gif",
		"image/png; charset=binary": ".png",
		"text/plain":                ".dat",
		"":                          ".dat",
	}
	for ct, want := range cases {
		assert.Equal(t, want, ExtensionFor(ct), ct)
	}
}

func TestNewImageNameFallback(t *testing.T) {
	now := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)

	name := NewImageName("image/png", now)
	assert.Regexp(t, `^[0-9a-f-]{36}\.png$`, name)

	newUUID = func() (uuid.UUID, error) { return uuid.Nil, errors.New("entropie épuisée") }
	defer func() { newUUID = uuid.NewRandom }()

	name = NewImageName("application/octet-stream", now)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-z]+-[0-9a-z]+\.dat$`), name)
	assert.NotEqual(t, name, NewImageName("application/octet-stream", now))
}
