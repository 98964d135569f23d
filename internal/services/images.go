package services

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/cache"
	"github.com/tmaenge-dot/mystore-admin/internal/config"
)

// UploadConstraints fixe la taille maximale en octets et la largeur maximale
// en pixels d'une image acceptée
type UploadConstraints struct {
	MaxBytes int64
	MaxWidth int
}

// MaxImagePixels borne la surface d'une image matricielle décodée
const MaxImagePixels = 40_000_000

var (
	ProductImageConstraints = UploadConstraints{MaxBytes: config.DefaultUploadMaxBytes, MaxWidth: config.DefaultProductImageMaxWidth}
	LogoConstraints         = UploadConstraints{MaxBytes: config.DefaultUploadMaxBytes, MaxWidth: config.DefaultLogoMaxWidth}
)

// UploadSource décrit ce que l'admin a soumis : soit une URL, soit un fichier.
// Le fichier est prioritaire quand les deux sont fournis.
type UploadSource struct {
	URL         string
	File        io.Reader
	ContentType string
	Size        int64 // taille déclarée, 0 si inconnue
	ClientKey   string
}

// ImagePipeline valide, normalise et stocke les images envoyées par l'admin
type ImagePipeline struct {
	backend ImageBackend
	limiter cache.Limiter
	now     func() time.Time
}

func NewImagePipeline(backend ImageBackend, limiter cache.Limiter) *ImagePipeline {
	return &ImagePipeline{backend: backend, limiter: limiter, now: time.Now}
}

func (p *ImagePipeline) Backend() ImageBackend { return p.backend }

// AcceptUpload renvoie la référence de l'image à enregistrer.
// Une URL est reprise telle quelle ; un fichier passe par les contrôles de
// type, de taille, de débit et de contenu avant d'être écrit. Aucun fichier
// n'est créé quand l'envoi est rejeté.
func (p *ImagePipeline) AcceptUpload(ctx context.Context, src UploadSource, cons UploadConstraints) (string, error) {
	if src.File == nil {
		url := strings.TrimSpace(src.URL)
		if url == "" {
			return "", uploadErr(KindValidation, "aucune image ni URL fournie")
		}
		return url, nil
	}

	// 1️⃣ Type déclaré
	ct := NormalizeContentType(src.ContentType)
	if !IsAllowedType(ct) {
		return "", uploadErr(KindUnsupportedMediaType, "type de fichier non supporté: %s", displayType(src.ContentType))
	}

	// 2️⃣ Taille déclarée
	if cons.MaxBytes > 0 && src.Size > cons.MaxBytes {
		return "", tooLarge(cons.MaxBytes)
	}

	// 3️⃣ Débit par client
	if p.limiter != nil {
		d, err := p.limiter.Allow(ctx, src.ClientKey)
		if err != nil {
			zap.S().Warnf("⚠️ Limiteur d'envois indisponible, envoi autorisé: %v", err)
		} else if !d.Allowed {
			return "", &UploadError{
				Kind:       KindRateLimited,
				Message:    "trop d'envois, réessayez dans quelques instants",
				RetryAfter: d.RetryAfter,
			}
		}
	}

	// 4️⃣ Lecture bornée : la taille réelle compte, pas seulement la déclarée
	data, err := readLimited(src.File, cons.MaxBytes)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", uploadErr(KindInvalidImage, "fichier vide")
	}

	// 5️⃣ Décodage, contrôle du contenu et redimensionnement
	out, err := normalizeImage(data, ct, cons.MaxWidth)
	if err != nil {
		return "", err
	}

	// 6️⃣ Écriture atomique sous un nom généré
	name := NewImageName(ct, p.now())
	ref, err := p.backend.Put(ctx, name, out, ct)
	if err != nil {
		return "", err
	}
	zap.S().Infow("✅ Image acceptée", "name", name, "type", ct, "bytes", len(out))
	return ref, nil
}

func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, tooLarge(max)
	}
	return data, nil
}

func tooLarge(max int64) *UploadError {
	return uploadErr(KindPayloadTooLarge, "fichier trop volumineux (max %d Mo)", max/(1024*1024))
}

func displayType(ct string) string {
	if strings.TrimSpace(ct) == "" {
		return "inconnu"
	}
	return ct
}

// normalizeImage vérifie que le contenu correspond au type déclaré puis
// réduit les images matricielles plus larges que maxWidth
func normalizeImage(data []byte, ct string, maxWidth int) ([]byte, error) {
	detected := mimetype.Detect(data)
	if !detected.Is(ct) {
		return nil, uploadErr(KindInvalidImage, "le contenu du fichier (%s) ne correspond pas au type %s", detected.String(), ct)
	}

	if ct == MimeSVG {
		if err := validateSVG(data); err != nil {
			return nil, err
		}
		return data, nil
	}

	// les dimensions sont lues dans l'en-tête avant d'allouer le bitmap
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, uploadErr(KindInvalidImage, "image illisible: %v", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, uploadErr(KindInvalidImage, "image trop grande: %dx%d pixels (max %d)", cfg.Width, cfg.Height, MaxImagePixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, uploadErr(KindInvalidImage, "image illisible: %v", err)
	}
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return data, nil
	}

	resized := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, formatFor(ct), imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFor(ct string) imaging.Format {
	switch ct {
	case MimePNG:
		return imaging.PNG
	case MimeGIF:
		return imaging.GIF
	default:
		return imaging.JPEG
	}
}

var (
	svgAnimations      = map[string]struct{}{"set": {}, "animate": {}, "animatemotion": {}, "animatetransform": {}}
	svgAnimationValues = map[string]struct{}{"to": {}, "from": {}, "values": {}, "by": {}}
)

// isJavascriptURL ignore la casse et les blancs ou caractères de contrôle
// que les navigateurs retirent avant de lire le schéma
func isJavascriptURL(v string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, v)
	return strings.HasPrefix(strings.ToLower(cleaned), "javascript:")
}

// validateSVG exige une racine <svg> et refuse le contenu actif :
// script, foreignObject, attributs on*, liens javascript: même animés
func validateSVG(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	root := true
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return uploadErr(KindInvalidImage, "SVG illisible: %v", err)
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		name := strings.ToLower(el.Name.Local)
		if root {
			if name != "svg" {
				return uploadErr(KindInvalidImage, "la racine du document n'est pas <svg>")
			}
			root = false
		}
		if name == "script" || name == "foreignobject" {
			return uploadErr(KindInvalidImage, "SVG refusé: élément <%s> interdit", el.Name.Local)
		}
		_, animation := svgAnimations[name]
		for _, attr := range el.Attr {
			attrName := strings.ToLower(attr.Name.Local)
			if strings.HasPrefix(attrName, "on") {
				return uploadErr(KindInvalidImage, "SVG refusé: attribut %s interdit", attr.Name.Local)
			}
			if attrName == "href" && isJavascriptURL(attr.Value) {
				return uploadErr(KindInvalidImage, "SVG refusé: lien javascript")
			}
			if !animation {
				continue
			}
			// <set>/<animate> peuvent réécrire un href après le chargement
			if attrName == "attributename" {
				target := strings.ToLower(strings.TrimSpace(attr.Value))
				if target == "href" || strings.HasSuffix(target, ":href") {
					return uploadErr(KindInvalidImage, "SVG refusé: animation de %s interdite", attr.Value)
				}
			}
			if _, ok := svgAnimationValues[attrName]; ok {
				for _, v := range strings.Split(attr.Value, ";") {
					if isJavascriptURL(v) {
						return uploadErr(KindInvalidImage, "SVG refusé: valeur javascript dans <%s>", el.Name.Local)
					}
				}
			}
		}
	}
	if root {
		return uploadErr(KindInvalidImage, "SVG vide")
	}
	return nil
}
